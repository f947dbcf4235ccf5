package entity

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCompany = "company"
)

// Actor es el llamador autenticado de una operación: rol + empresa propietaria
// opcional. Se pasa explícito a cada caso de uso y consulta (nada de estado de
// sesión ambiente), de modo que policy y listados se pueden testear sin request.
type Actor struct {
	UserID    string
	Role      string  // admin | company
	CompanyID *string // nil para admin
}

// IsAdmin informa si el actor tiene rol admin.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsCompanyUser informa si el actor es un usuario de empresa.
func (a Actor) IsCompanyUser() bool {
	return a.Role == RoleCompany
}

// OwnsCompany informa si el actor pertenece a la empresa indicada.
func (a Actor) OwnsCompany(companyID string) bool {
	return a.CompanyID != nil && *a.CompanyID == companyID
}
