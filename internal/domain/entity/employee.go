package entity

import "time"

// Employee representa un empleado. Pertenece siempre a exactamente una Company:
// CompanyID es obligatorio y referencia una empresa existente.
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string // único entre empleados
	Phone     string
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time

	// CompanyName se pobla vía JOIN en consultas (para búsqueda/orden por empresa).
	CompanyName string
}

// FullName concatena nombre y apellido.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
