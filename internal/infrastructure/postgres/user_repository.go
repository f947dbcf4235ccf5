package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// Claves de orden permitidas para usuarios.
var userSortColumns = map[string]string{
	"name":       "u.name",
	"email":      "u.email",
	"created_at": "u.created_at",
	"company":    "c.name",
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.company_id,
		COALESCE(c.name, ''), u.created_at, u.updated_at`

// LEFT JOIN: los admins no tienen empresa.
const userFrom = ` FROM users u LEFT JOIN companies c ON c.id = u.company_id`

// Create persiste un nuevo usuario. Devuelve domain.ErrEmailAlreadyExists en
// carrera de inserción duplicada.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(context.Background(), query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CompanyID,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (nil si no existe).
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + userFrom + ` WHERE u.id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene un usuario por email (nil si no existe). Usado por login
// y por el chequeo de unicidad.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + userFrom + ` WHERE u.email = $1 LIMIT 1`
	return r.scanOne(query, email)
}

func (r *UserRepo) scanOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CompanyID,
		&u.CompanyName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, password_hash = $4, role = $5, company_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CompanyID, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List devuelve usuarios según opts más el total. Con scope, los usuarios
// admin (company_id NULL) quedan fuera por el igual estricto del WHERE.
func (r *UserRepo) List(opts repository.ListOptions) ([]*entity.User, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if opts.Scope != nil {
		args = append(args, *opts.Scope)
		where = append(where, fmt.Sprintf("u.company_id = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(u.name ILIKE $%d OR u.email ILIKE $%d OR c.name ILIKE $%d)", n, n, n))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + userFrom + whereSQL
	if err := r.db.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderCol, ok := userSortColumns[opts.SortBy]
	if !ok {
		orderCol = "u.name"
	}
	dir := "ASC"
	if opts.SortDir == "desc" {
		dir = "DESC"
	}
	args = append(args, opts.PerPage, opts.Offset())
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY %s %s, u.id ASC LIMIT $%d OFFSET $%d`,
		userColumns, userFrom, whereSQL, orderCol, dir, len(args)-1, len(args))

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CompanyID, &u.CompanyName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, total, rows.Err()
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(id string) error {
	_, err := r.db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
