package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/mapper"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/service"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string, details []types.ErrorDetail) {
	writeJSON(w, status, types.APIErrorResponse{
		StatusCode: status,
		Message:    msg,
		Error:      http.StatusText(status),
		Details:    details,
	})
}

// invalid answers 400 with one detail per violation.
func (a *api) invalid(w http.ResponseWriter, res v.Result) {
	vios := res.Violations()
	a.Metrics.Violations(res.Schema(), len(vios))
	details := make([]types.ErrorDetail, len(vios))
	for i, vio := range vios {
		details[i] = types.ErrorDetail{Field: vio.Path, Message: vio.Message}
	}
	writeError(w, http.StatusBadRequest, "Validation failed", details)
}

// fail classifies err. Integrity faults and unknown errors are logged and
// answered with a generic 500.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		se *service.Error
		ie *mapper.IntegrityError
		ve *v.ValidationError
	)
	switch {
	case errors.As(err, &se):
		status := http.StatusInternalServerError
		switch {
		case errors.Is(se, service.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(se, service.ErrConflict):
			status = http.StatusConflict
		case errors.Is(se, service.ErrUnauthorized):
			status = http.StatusUnauthorized
		}
		writeError(w, status, se.Message, nil)
	case errors.As(err, &ve):
		details := make([]types.ErrorDetail, len(ve.Violations))
		for i, vio := range ve.Violations {
			details[i] = types.ErrorDetail{Field: vio.Path, Message: vio.Message}
		}
		writeError(w, http.StatusBadRequest, "Validation failed", details)
	case errors.As(err, &ie):
		a.Metrics.IntegrityFault(ie.Entity)
		a.Logger.Error("response violates its contract",
			zap.String("entity", ie.Entity),
			zap.String("id", ie.ID),
			zap.Stringers("violations", ie.Violations),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		a.Logger.Error("request failed", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// decodeBody reads and validates a JSON body, then binds it to T. It
// answers the request itself and returns false on any failure.
func decodeBody[T any](a *api, w http.ResponseWriter, r *http.Request, schema *v.Node) (T, bool) {
	var zero T
	res, err := v.DecodeAndValidate(r.Body, schema)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON body", nil)
		return zero, false
	}
	if !res.OK() {
		a.invalid(w, res)
		return zero, false
	}
	out, err := v.Bind[T](res)
	if err != nil {
		unbindable(w, err)
		return zero, false
	}
	return out, true
}

// unbindable answers client input that satisfied its schema but does not
// fit the Go type, such as an integer beyond the int range.
func unbindable(w http.ResponseWriter, err error) {
	var details []types.ErrorDetail
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		details = []types.ErrorDetail{{Field: te.Field, Message: "value does not fit " + te.Type.String()}}
	}
	writeError(w, http.StatusBadRequest, "Validation failed", details)
}

// decodeQuery validates the query string. The first value of each key
// counts; numeric fields rely on schema coercion.
func decodeQuery[T any](a *api, w http.ResponseWriter, r *http.Request, schema *v.Node) (T, bool) {
	var zero T
	in := map[string]any{}
	for k, vals := range r.URL.Query() {
		if len(vals) > 0 {
			in[k] = vals[0]
		}
	}
	res := v.Validate(schema, in)
	if !res.OK() {
		a.invalid(w, res)
		return zero, false
	}
	out, err := v.Bind[T](res)
	if err != nil {
		unbindable(w, err)
		return zero, false
	}
	return out, true
}

// pathID validates the {id} segment as a UUID.
func (a *api) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	res := v.Validate(schemas.IDParam, map[string]any{"id": chi.URLParam(r, "id")})
	if !res.OK() {
		a.invalid(w, res)
		return "", false
	}
	p, err := v.Bind[types.IDParam](res)
	if err != nil {
		unbindable(w, err)
		return "", false
	}
	return p.ID, true
}
