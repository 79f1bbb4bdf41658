package dto

import "time"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token emitido más el perfil del usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest body para POST /api/users.
type CreateUserRequest struct {
	InstitutionID   string  `json:"institution_id" validate:"required,uuid"`
	EstablishmentID *string `json:"establishment_id,omitempty" validate:"omitempty,uuid"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	RUT             string  `json:"rut,omitempty"`
	Role            string  `json:"role" validate:"required,oneof=ADMIN_CENTRAL ADMIN_ESTABLISHMENT VIEWER"`
}

// UserResponse usuario en respuestas (sin hash de contraseña).
type UserResponse struct {
	ID              string    `json:"id"`
	InstitutionID   string    `json:"institution_id"`
	EstablishmentID *string   `json:"establishment_id,omitempty"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	RUT             string    `json:"rut,omitempty"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
