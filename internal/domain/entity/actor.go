package entity

// Actor es el usuario autenticado que ejecuta una operación del núcleo.
// Se pasa explícitamente a cada caso de uso; nunca se lee de un estado global de sesión.
type Actor struct {
	ID   string
	Role string
}

// IsClient indica autoservicio (sin cajero de por medio).
func (a Actor) IsClient() bool { return a.Role == RoleClient }

// IsStaff indica cajero o administrador.
func (a Actor) IsStaff() bool { return a.Role == RoleCashier || a.Role == RoleAdmin }

// Valid indica si el actor tiene identidad y un rol conocido.
func (a Actor) Valid() bool {
	if a.ID == "" {
		return false
	}
	switch a.Role {
	case RoleClient, RoleCashier, RoleAdmin:
		return true
	}
	return false
}
