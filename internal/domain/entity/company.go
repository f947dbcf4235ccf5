package entity

import "time"

// Company representa una empresa del CRM (raíz de la jerarquía multi-tenant).
// Es dueña de sus Employees y de sus Users con rol company; borrarla cascada
// sobre ambos (constraint ON DELETE CASCADE en la tabla).
type Company struct {
	ID        string
	Name      string
	Email     string // único entre empresas
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// EmployeesCount se pobla en listados/detalle (COUNT sobre employees).
	EmployeesCount int
}
