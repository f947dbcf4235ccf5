package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/minicrm-api/internal/application/dto"
	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/policy"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// Mensajes del acople role/company_id.
const (
	msgAdminNoCompany      = "Admin users cannot be assigned to a company."
	msgCompanyNeedsCompany = "Company users must be assigned to a company."
	msgRoleInvalid         = "User role must be either admin or company."
)

// UserUseCase aplica reglas de negocio para usuarios. El invariante central
// (role=admin ⟺ company_id null) se chequea con una única función explícita en
// todo camino de create/update, antes de persistir.
type UserUseCase struct {
	repo        repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companyRepo: companyRepo}
}

// validateRoleCompany es el chequeo único del invariante role/company_id.
// Devuelve errores de validación a nivel de campo (nunca not-found).
func validateRoleCompany(role string, companyID *string) *domain.ValidationError {
	ve := &domain.ValidationError{}
	switch role {
	case entity.RoleAdmin:
		if companyID != nil {
			ve.Add("company_id", msgAdminNoCompany)
		}
	case entity.RoleCompany:
		if companyID == nil {
			ve.Add("company_id", msgCompanyNeedsCompany)
		}
	default:
		ve.Add("role", msgRoleInvalid)
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// List devuelve la página de usuarios visibles para el actor. Los usuarios
// admin (sin empresa) solo son visibles para admins.
func (uc *UserUseCase) List(actor entity.Actor, in dto.ListRequest) (*dto.UserListResponse, error) {
	if !policy.Users.CanViewAny(actor) {
		return nil, domain.ErrForbidden
	}
	opts := repository.ListOptions{
		Search:  trimmed(in.Search),
		SortBy:  in.OrderBy,
		SortDir: in.OrderDirection,
		Page:    in.Page,
		PerPage: in.PerPage,
	}
	if !actor.IsAdmin() {
		if actor.CompanyID == nil {
			return nil, domain.ErrForbidden
		}
		opts.Scope = actor.CompanyID
	}
	opts.Normalize()

	list, total, err := uc.repo.List(opts)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.NewPageResponse(opts.Page, opts.PerPage, total),
	}, nil
}

// GetByID obtiene un usuario visible para el actor. La respuesta nunca incluye
// el hash de password.
func (uc *UserUseCase) GetByID(actor entity.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Users.CanView(actor, user.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return entityToUserResponse(user), nil
}

// Create crea un usuario (solo admin). Valida campos, el invariante
// role/company y la existencia de la empresa referenciada; hashea el password
// con bcrypt antes de persistir.
func (uc *UserUseCase) Create(actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !policy.Users.CanCreate(actor) {
		return nil, domain.ErrForbidden
	}

	in.Name = trimmed(in.Name)
	in.Email = trimmed(in.Email)
	in.Role = trimmed(in.Role)
	if in.CompanyID != nil {
		id := trimmed(*in.CompanyID)
		if id == "" {
			in.CompanyID = nil
		} else {
			in.CompanyID = &id
		}
	}

	ve := &domain.ValidationError{}
	validateUserName(ve, in.Name, true)
	validateUserEmail(ve, in.Email, true)
	if in.Password == "" {
		ve.Add("password", "Password is required.")
	} else if len(in.Password) < 8 {
		ve.Add("password", "Password must be at least 8 characters.")
	}
	if in.Role == "" {
		ve.Add("role", "User role is required.")
	} else if inv := validateRoleCompany(in.Role, in.CompanyID); inv != nil {
		for f, m := range inv.Fields {
			ve.Add(f, m)
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	var companyName string
	if in.CompanyID != nil {
		company, err := uc.companyRepo.GetByID(*in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.NewValidationError("company_id", msgCompanyMissing)
		}
		companyName = company.Name
	}
	if err := uc.ensureEmailFree(in.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CompanyID:    in.CompanyID,
		CompanyName:  companyName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Update aplica un partial update sobre un usuario del scope del actor.
// Password omitido queda intacto. Cambiar el rol a admin sin enviar company_id
// anula la empresa almacenada; enviar role=admin junto con una empresa es un
// error de validación sobre company_id.
func (uc *UserUseCase) Update(actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Users.CanUpdate(actor, user.CompanyID) {
		return nil, domain.ErrForbidden
	}

	ve := &domain.ValidationError{}
	if in.Name != nil {
		*in.Name = trimmed(*in.Name)
		validateUserName(ve, *in.Name, false)
	}
	if in.Email != nil {
		*in.Email = trimmed(*in.Email)
		validateUserEmail(ve, *in.Email, false)
	}
	if in.Password != nil && *in.Password != "" && len(*in.Password) < 8 {
		ve.Add("password", "Password must be at least 8 characters.")
	}

	// Estado efectivo de role/company tras aplicar la entrada.
	role := user.Role
	if in.Role != nil {
		role = trimmed(*in.Role)
	}
	companyID := user.CompanyID
	if in.CompanyID.Set {
		companyID = in.CompanyID.Value
	} else if role == entity.RoleAdmin {
		// Pasar a admin sin enviar company_id anula la empresa existente.
		companyID = nil
	}
	if inv := validateRoleCompany(role, companyID); inv != nil {
		for f, m := range inv.Fields {
			ve.Add(f, m)
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	companyChanged := !equalStringPtr(companyID, user.CompanyID)
	if companyChanged && companyID != nil {
		company, err := uc.companyRepo.GetByID(*companyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.NewValidationError("company_id", msgCompanyMissing)
		}
		user.CompanyName = company.Name
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := uc.ensureEmailFree(*in.Email, user.ID); err != nil {
			return nil, err
		}
	}

	changed := false
	if in.Name != nil && *in.Name != user.Name {
		user.Name = *in.Name
		changed = true
	}
	if in.Email != nil && *in.Email != user.Email {
		user.Email = *in.Email
		changed = true
	}
	if role != user.Role {
		user.Role = role
		changed = true
	}
	if companyChanged {
		user.CompanyID = companyID
		if companyID == nil {
			user.CompanyName = ""
		}
		changed = true
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		changed = true
	}
	if !changed {
		return entityToUserResponse(user), nil
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Delete elimina un usuario (solo admin).
func (uc *UserUseCase) Delete(actor entity.Actor, id string) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if !policy.Users.CanDelete(actor, user.CompanyID) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func (uc *UserUseCase) ensureEmailFree(email, selfID string) error {
	existing, err := uc.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError("email", msgEmailTaken)
	}
	return nil
}

func validateUserName(ve *domain.ValidationError, name string, required bool) {
	if name == "" {
		if required {
			ve.Add("name", "User name is required.")
		} else {
			ve.Add("name", "User name may not be empty.")
		}
		return
	}
	if len(name) > maxFieldLen {
		ve.Add("name", "User name may not be greater than 255 characters.")
	}
}

func validateUserEmail(ve *domain.ValidationError, email string, required bool) {
	if email == "" {
		if required {
			ve.Add("email", "User email is required.")
		} else {
			ve.Add("email", "User email may not be empty.")
		}
		return
	}
	if !validEmail(email) {
		ve.Add("email", "User email must be a valid email address.")
	}
	if len(email) > maxFieldLen {
		ve.Add("email", "User email may not be greater than 255 characters.")
	}
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		CompanyID:   u.CompanyID,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
