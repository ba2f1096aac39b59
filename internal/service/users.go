package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobd/apicontract/internal/mapper"
	"github.com/Gobd/apicontract/internal/record"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const emailTaken = "User with this email already exists"

// Users manages accounts. Passwords are stored as bcrypt hashes.
type Users struct {
	repo  store.Users
	clock Clock
	cost  int
}

// UsersOption configures [NewUsers].
type UsersOption func(*Users)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) UsersOption {
	return func(u *Users) { u.cost = cost }
}

func NewUsers(repo store.Users, clock Clock, opts ...UsersOption) *Users {
	u := &Users{repo: repo, clock: clock, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (s *Users) Create(ctx context.Context, in types.CreateUserInput) (types.UserResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return types.UserResponse{}, conflict(emailTaken)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return types.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.clock()
	rec := record.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.UserResponse{}, conflict(emailTaken)
		}
		return types.UserResponse{}, fmt.Errorf("create user: %w", err)
	}
	return mapper.UserResponse(rec)
}

// List returns one page of users, newest first.
func (s *Users) List(ctx context.Context, q types.PaginationQuery) (types.Paginated[types.UserResponse], error) {
	recs, total, err := s.repo.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		return types.Paginated[types.UserResponse]{}, fmt.Errorf("list users: %w", err)
	}
	return page(recs, total, q, mapper.UserResponse)
}

func (s *Users) Get(ctx context.Context, id string) (types.UserResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.UserResponse{}, lookup(err, "User", id)
	}
	return mapper.UserResponse(rec)
}

// Update changes the fields present in in. A new email must not belong to
// another user.
func (s *Users) Update(ctx context.Context, id string, in types.UpdateUserInput) (types.UserResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.UserResponse{}, lookup(err, "User", id)
	}
	if in.Email != nil && *in.Email != rec.Email {
		if _, err := s.repo.GetByEmail(ctx, *in.Email); err == nil {
			return types.UserResponse{}, conflict(emailTaken)
		}
		rec.Email = *in.Email
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	rec.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.UserResponse{}, conflict(emailTaken)
		}
		return types.UserResponse{}, lookup(err, "User", id)
	}
	return mapper.UserResponse(rec)
}

func (s *Users) Delete(ctx context.Context, id string) error {
	return lookup(s.repo.Delete(ctx, id), "User", id)
}

// Login checks the credentials and issues an opaque access token. Unknown
// emails and wrong passwords fail the same way.
func (s *Users) Login(ctx context.Context, in types.LoginInput) (types.AuthResponse, error) {
	denied := &Error{Kind: ErrUnauthorized, Message: "Invalid email or password"}
	rec, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return types.AuthResponse{}, denied
	}
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(in.Password)) != nil {
		return types.AuthResponse{}, denied
	}
	user, err := mapper.UserResponse(rec)
	if err != nil {
		return types.AuthResponse{}, err
	}
	return types.AuthResponse{User: user, AccessToken: uuid.NewString()}, nil
}
