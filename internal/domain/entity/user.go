package entity

import "time"

// User representa una cuenta del sistema. Invariante role/company:
// role=admin ⟺ CompanyID nil; role=company ⟺ CompanyID no nil y referencia una
// empresa existente. Se valida en cada create/update antes de persistir y la
// tabla lo respalda con un CHECK.
type User struct {
	ID           string
	Name         string
	Email        string // único entre usuarios
	PasswordHash string // bcrypt, nunca se serializa hacia afuera
	Role         string // admin | company
	CompanyID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// CompanyName se pobla vía JOIN en consultas; vacío para admins.
	CompanyName string
}

// IsAdmin informa si el usuario tiene rol admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCompanyUser informa si el usuario tiene rol company.
func (u *User) IsCompanyUser() bool {
	return u.Role == RoleCompany
}

// AsActor construye el Actor correspondiente a este usuario.
func (u *User) AsActor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
