package notify

import "time"

// EmployeeCreatedNotice datos de la notificación de alta de empleado que se
// envía al email de la empresa dueña.
type EmployeeCreatedNotice struct {
	EmployeeName  string
	EmployeeEmail string
	EmployeePhone string
	CompanyName   string
	CompanyEmail  string
	CreatedAt     time.Time
}

// Notifier puerto de notificaciones salientes. Las implementaciones pueden
// fallar; el llamador decide si el fallo se propaga o se registra y descarta.
type Notifier interface {
	EmployeeCreated(notice EmployeeCreatedNotice) error
}
