package domain

import "time"

// Role es el conjunto cerrado de roles reconocidos por la aplicación.
type Role string

const (
	// RoleCustomer es el rol base asignado a toda cuenta nueva.
	RoleCustomer Role = "customer"
	// RoleAdmin habilita operaciones administrativas y cross-user.
	RoleAdmin Role = "admin"
)

// User representa la identidad persistida de una cuenta.
// PasswordHash queda vacío para cuentas de proveedores externos.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	Blocked      bool      `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole indica si el usuario tiene el rol dado.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin es un atajo para el rol elevado.
func (u User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// NormalizeRoles reduce una lista arbitraria de nombres de rol al conjunto
// enumerado. Valores desconocidos se descartan y duplicados se colapsan;
// una entrada ausente o malformada produce una lista vacía, nunca nil
// propagado río abajo.
func NormalizeRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	seen := make(map[Role]bool, len(raw))
	for _, name := range raw {
		role := Role(name)
		switch role {
		case RoleCustomer, RoleAdmin:
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	return roles
}

// RoleNames convierte el conjunto de roles a strings para el payload del token.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return names
}
