package httpapi

import (
	"net/http"

	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/types"
)

func (a *api) createUser(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[types.CreateUserInput](a, w, r, schemas.CreateUserInput)
	if !ok {
		return
	}
	out, err := a.Users.Create(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *api) listUsers(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[types.PaginationQuery](a, w, r, schemas.PaginationQuery)
	if !ok {
		return
	}
	out, err := a.Users.List(r.Context(), q)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[types.LoginInput](a, w, r, schemas.LoginInput)
	if !ok {
		return
	}
	out, err := a.Users.Login(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	out, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeBody[types.UpdateUserInput](a, w, r, schemas.UpdateUserInput)
	if !ok {
		return
	}
	out, err := a.Users.Update(r.Context(), id, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.Users.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) createProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[types.CreateProductInput](a, w, r, schemas.CreateProductInput)
	if !ok {
		return
	}
	out, err := a.Products.Create(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *api) listProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[types.PaginationQuery](a, w, r, schemas.PaginationQuery)
	if !ok {
		return
	}
	out, err := a.Products.List(r.Context(), q)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	out, err := a.Products.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeBody[types.UpdateProductInput](a, w, r, schemas.UpdateProductInput)
	if !ok {
		return
	}
	out, err := a.Products.Update(r.Context(), id, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.Products.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) createOrder(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[types.CreateOrderInput](a, w, r, schemas.CreateOrderInput)
	if !ok {
		return
	}
	out, err := a.Orders.Create(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *api) listOrders(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[types.PaginationQuery](a, w, r, schemas.PaginationQuery)
	if !ok {
		return
	}
	out, err := a.Orders.List(r.Context(), q)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	out, err := a.Orders.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeBody[types.UpdateOrderStatusInput](a, w, r, schemas.UpdateOrderStatusInput)
	if !ok {
		return
	}
	out, err := a.Orders.UpdateStatus(r.Context(), id, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
