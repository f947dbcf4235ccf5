package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// Claves de orden permitidas para empresas. Claves desconocidas caen al
// default (name asc) en lugar de fallar.
var companySortColumns = map[string]string{
	"name":       "c.name",
	"email":      "c.email",
	"created_at": "c.created_at",
}

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `c.id, c.name, c.email, c.website, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM employees e WHERE e.company_id = c.id) AS employees_count`

// Create persiste una nueva empresa. Devuelve domain.ErrEmailAlreadyExists en
// carrera de inserción duplicada (constraint único de email).
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, email, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(context.Background(), query,
		company.ID, company.Name, company.Email, company.Website,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID (nil si no existe).
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies c WHERE c.id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene una empresa por email (nil si no existe).
func (r *CompanyRepo) GetByEmail(email string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies c WHERE c.email = $1`
	return r.scanOne(query, email)
}

func (r *CompanyRepo) scanOne(query string, arg any) (*entity.Company, error) {
	var c entity.Company
	err := r.db.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.Name, &c.Email, &c.Website, &c.CreatedAt, &c.UpdatedAt, &c.EmployeesCount,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, email = $3, website = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query,
		company.ID, company.Name, company.Email, company.Website, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List devuelve empresas según opts más el total de filas que matchean.
// El scope se aplica en el WHERE, antes que la búsqueda; el orden lleva
// siempre id como desempate para que la paginación sea estable.
func (r *CompanyRepo) List(opts repository.ListOptions) ([]*entity.Company, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if opts.Scope != nil {
		args = append(args, *opts.Scope)
		where = append(where, fmt.Sprintf("c.id = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(c.name ILIKE $%d OR c.email ILIKE $%d)", n, n))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM companies c` + whereSQL
	if err := r.db.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	orderCol, ok := companySortColumns[opts.SortBy]
	if !ok {
		orderCol = "c.name"
	}
	dir := "ASC"
	if opts.SortDir == "desc" {
		dir = "DESC"
	}
	args = append(args, opts.PerPage, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM companies c%s ORDER BY %s %s, c.id ASC LIMIT $%d OFFSET $%d`,
		companyColumns, whereSQL, orderCol, dir, len(args)-1, len(args))

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Website, &c.CreatedAt, &c.UpdatedAt, &c.EmployeesCount); err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Delete elimina una empresa por ID. Los users y employees dependientes caen
// por ON DELETE CASCADE.
func (r *CompanyRepo) Delete(id string) error {
	_, err := r.db.Exec(context.Background(), `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// Exists informa si la empresa existe (para chequeos de referencia).
func (r *CompanyRepo) Exists(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check company: %w", err)
	}
	return exists, nil
}
