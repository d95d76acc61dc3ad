// Package users implements the admin-only account management screen on top
// of the backend /users endpoints.
package users

import (
	"context"
	"errors"
	"strings"

	"distris/internal/model"
)

var (
	ErrEmailRequired    = errors.New("el email es obligatorio")
	ErrPasswordRequired = errors.New("para crear un usuario nuevo, la contraseña es obligatoria")
	ErrPasswordMismatch = errors.New("las contraseñas no coinciden")
	ErrInvalidRole      = errors.New("rol inválido")
	ErrForbidden        = errors.New("solo un administrador puede gestionar usuarios")
)

// Form is the create/edit user form. A zero ID means create.
type Form struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (f *Form) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	if f.Role == "" {
		f.Role = model.RoleUser
	}

	if f.Email == "" {
		return ErrEmailRequired
	}
	if f.ID == 0 && f.Password == "" {
		return ErrPasswordRequired
	}
	if (f.Password != "" || f.Confirm != "") && f.Password != f.Confirm {
		return ErrPasswordMismatch
	}
	if f.Role != model.RoleAdmin && f.Role != model.RoleUser {
		return ErrInvalidRole
	}
	return nil
}

// Payload builds the request body. An empty name is sent as null and the
// password only when one was typed.
func (f Form) Payload() model.UserPayload {
	p := model.UserPayload{Email: f.Email, Role: f.Role, Password: f.Password}
	if f.Name != "" {
		name := f.Name
		p.Name = &name
	}
	return p
}

type Backend interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, p model.UserPayload) (*model.User, error)
	UpdateUser(ctx context.Context, id int, p model.UserPayload) (*model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// Service gates every call on the acting user being an admin.
type Service struct {
	api Backend
}

func NewService(api Backend) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, actor model.User) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.api.ListUsers(ctx)
}

func (s *Service) Save(ctx context.Context, actor model.User, f Form) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return s.api.CreateUser(ctx, f.Payload())
	}
	return s.api.UpdateUser(ctx, f.ID, f.Payload())
}

func (s *Service) Delete(ctx context.Context, actor model.User, id int) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.api.DeleteUser(ctx, id)
}
