package repository

import "github.com/jhoicas/minicrm-api/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para Employee (DIP).
type EmployeeRepository interface {
	Create(employee *entity.Employee) error
	GetByID(id string) (*entity.Employee, error)
	GetByEmail(email string) (*entity.Employee, error)
	Update(employee *entity.Employee) error
	List(opts ListOptions) ([]*entity.Employee, int, error)
	Delete(id string) error
}
