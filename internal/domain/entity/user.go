package entity

import "time"

// Roles válidos para User.
const (
	RoleClient  = "client"
	RoleCashier = "cashier"
	RoleAdmin   = "admin"
)

// User representa una persona registrada (cliente, cajero o administrador).
// El núcleo de tiquetes solo lee ID y Role; el resto lo administra el módulo de identidad.
type User struct {
	ID                 string
	Phone              string // único
	PasswordHash       string // bcrypt hash
	Role               string // client, cashier, admin
	PassportSeries     string
	PassportNumber     string
	OrganizationNumber string // solo cajeros
	CreatedAt          time.Time
}

// IsStaff indica si el usuario es cajero o administrador.
func (u *User) IsStaff() bool {
	return u.Role == RoleCashier || u.Role == RoleAdmin
}
