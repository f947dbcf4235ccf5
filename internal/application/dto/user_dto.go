package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea
// en el caso de uso). CompanyID obligatorio para rol company, prohibido para admin.
type CreateUserRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"` // admin | company
	CompanyID *string `json:"company_id"`
}

// UpdateUserRequest entrada para actualizar un usuario (partial update).
// Password omitido deja el hash existente intacto. CompanyID usa OptionalString
// para distinguir "no enviado" de "enviado null" en el acople role/company.
type UpdateUserRequest struct {
	Name      *string        `json:"name"`
	Email     *string        `json:"email"`
	Password  *string        `json:"password"`
	Role      *string        `json:"role"`
	CompanyID OptionalString `json:"company_id"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyID   *string   `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
