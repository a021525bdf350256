package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string    `json:"id"`
	Phone              string    `json:"phone"`
	Role               string    `json:"role"`
	PassportSeries     string    `json:"passport_series,omitempty"`
	PassportNumber     string    `json:"passport_number,omitempty"`
	OrganizationNumber string    `json:"organization_number,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// LoginRequest entrada para login por teléfono.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterCashierRequest alta de un cajero por el admin.
type RegisterCashierRequest struct {
	Phone              string `json:"phone" validate:"required"`
	Password           string `json:"password" validate:"required,min=8"`
	PassportSeries     string `json:"passport_series"`
	PassportNumber     string `json:"passport_number"`
	OrganizationNumber string `json:"organization_number" validate:"required"`
}

// RegisterClientRequest alta de un cliente en autoservicio.
type RegisterClientRequest struct {
	Phone          string `json:"phone" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
	PassportSeries string `json:"passport_series"`
	PassportNumber string `json:"passport_number"`
}
