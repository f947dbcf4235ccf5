package repository

import "github.com/jhoicas/minicrm-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByEmail(email string) (*entity.Company, error)
	Update(company *entity.Company) error
	// List devuelve la página de empresas visibles según opts más el total de
	// filas que matchean (para calcular last_page).
	List(opts ListOptions) ([]*entity.Company, int, error)
	// Delete elimina la empresa; el store cascada users y employees dependientes.
	Delete(id string) error
	Exists(id string) (bool, error)
}
