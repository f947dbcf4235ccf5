package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// Claves de orden permitidas para empleados. "company" ordena por el nombre de
// la empresa relacionada (JOIN).
var employeeSortColumns = map[string]string{
	"first_name": "e.first_name",
	"last_name":  "e.last_name",
	"email":      "e.email",
	"created_at": "e.created_at",
	"company":    "c.name",
}

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL.
type EmployeeRepo struct {
	db Querier
}

// NewEmployeeRepository construye el adaptador de persistencia para empleados.
func NewEmployeeRepository(db Querier) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

const employeeColumns = `e.id, e.first_name, e.last_name, e.email, e.phone, e.company_id, c.name,
		e.created_at, e.updated_at`

const employeeFrom = ` FROM employees e JOIN companies c ON c.id = e.company_id`

// Create persiste un nuevo empleado. Devuelve domain.ErrEmailAlreadyExists en
// carrera de inserción duplicada.
func (r *EmployeeRepo) Create(employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, first_name, last_name, email, phone, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(context.Background(), query,
		employee.ID, employee.FirstName, employee.LastName, employee.Email,
		employee.Phone, employee.CompanyID, employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID con el nombre de su empresa (nil si no existe).
func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE e.id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene un empleado por email (nil si no existe).
func (r *EmployeeRepo) GetByEmail(email string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE e.email = $1`
	return r.scanOne(query, email)
}

func (r *EmployeeRepo) scanOne(query string, arg any) (*entity.Employee, error) {
	var e entity.Employee
	err := r.db.QueryRow(context.Background(), query, arg).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.CompanyID, &e.CompanyName,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

// Update actualiza un empleado existente.
func (r *EmployeeRepo) Update(employee *entity.Employee) error {
	query := `
		UPDATE employees SET first_name = $2, last_name = $3, email = $4, phone = $5, company_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query,
		employee.ID, employee.FirstName, employee.LastName, employee.Email,
		employee.Phone, employee.CompanyID, employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// List devuelve empleados según opts más el total. El scope (company_id del
// actor) entra al WHERE antes que la búsqueda; la búsqueda cubre nombre,
// apellido, email, teléfono y el nombre de la empresa relacionada.
func (r *EmployeeRepo) List(opts repository.ListOptions) ([]*entity.Employee, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if opts.Scope != nil {
		args = append(args, *opts.Scope)
		where = append(where, fmt.Sprintf("e.company_id = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.email ILIKE $%d OR e.phone ILIKE $%d OR c.name ILIKE $%d)",
			n, n, n, n, n))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + employeeFrom + whereSQL
	if err := r.db.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	orderCol, ok := employeeSortColumns[opts.SortBy]
	if !ok {
		orderCol = "e.first_name"
	}
	dir := "ASC"
	if opts.SortDir == "desc" {
		dir = "DESC"
	}
	args = append(args, opts.PerPage, opts.Offset())
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY %s %s, e.id ASC LIMIT $%d OFFSET $%d`,
		employeeColumns, employeeFrom, whereSQL, orderCol, dir, len(args)-1, len(args))

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var list []*entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.CompanyID, &e.CompanyName, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}

// Delete elimina un empleado por ID.
func (r *EmployeeRepo) Delete(id string) error {
	_, err := r.db.Exec(context.Background(), `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
