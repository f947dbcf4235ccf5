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
)

// CompanyUseCase aplica reglas de negocio para empresas: autorización vía
// policy, validación de campos, unicidad de email y listados con scope.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// List devuelve la página de empresas visibles para el actor. Un actor con rol
// company solo ve su propia empresa, sin importar search/sort.
func (uc *CompanyUseCase) List(actor entity.Actor, in dto.ListRequest) (*dto.CompanyListResponse, error) {
	if !policy.Companies.CanViewAny(actor) {
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
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.NewPageResponse(opts.Page, opts.PerPage, total),
	}, nil
}

// GetByID obtiene una empresa visible para el actor.
func (uc *CompanyUseCase) GetByID(actor entity.Actor, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Companies.CanView(actor, &company.ID) {
		return nil, domain.ErrForbidden
	}
	return entityToCompanyResponse(company), nil
}

// Create crea una empresa (solo admin). Valida campos y unicidad de email antes
// de persistir; no hay aplicación parcial.
func (uc *CompanyUseCase) Create(actor entity.Actor, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !policy.Companies.CanCreate(actor) {
		return nil, domain.ErrForbidden
	}

	in.Name = trimmed(in.Name)
	in.Email = trimmed(in.Email)
	in.Website = trimmed(in.Website)

	ve := &domain.ValidationError{}
	validateCompanyName(ve, in.Name, true)
	validateCompanyEmail(ve, in.Email, true)
	validateCompanyWebsite(ve, in.Website, true)
	if !ve.Empty() {
		return nil, ve
	}
	if err := uc.ensureEmailFree(in.Email, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Website:   in.Website,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(company); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Update aplica un partial update sobre una empresa del scope del actor.
// Si ningún campo cambia, la fila queda intacta (incluido updated_at).
func (uc *CompanyUseCase) Update(actor entity.Actor, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Companies.CanUpdate(actor, &company.ID) {
		return nil, domain.ErrForbidden
	}

	ve := &domain.ValidationError{}
	if in.Name != nil {
		*in.Name = trimmed(*in.Name)
		validateCompanyName(ve, *in.Name, false)
	}
	if in.Email != nil {
		*in.Email = trimmed(*in.Email)
		validateCompanyEmail(ve, *in.Email, false)
	}
	if in.Website != nil {
		*in.Website = trimmed(*in.Website)
		validateCompanyWebsite(ve, *in.Website, false)
	}
	if !ve.Empty() {
		return nil, ve
	}
	if in.Email != nil && *in.Email != company.Email {
		// Unicidad con autoexclusión: conservar el propio email es válido.
		if err := uc.ensureEmailFree(*in.Email, company.ID); err != nil {
			return nil, err
		}
	}

	changed := false
	if in.Name != nil && *in.Name != company.Name {
		company.Name = *in.Name
		changed = true
	}
	if in.Email != nil && *in.Email != company.Email {
		company.Email = *in.Email
		changed = true
	}
	if in.Website != nil && *in.Website != company.Website {
		company.Website = *in.Website
		changed = true
	}
	if !changed {
		return entityToCompanyResponse(company), nil
	}

	company.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(company); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Delete elimina una empresa (solo admin). El store cascada usuarios y
// empleados dependientes.
func (uc *CompanyUseCase) Delete(actor entity.Actor, id string) error {
	if !policy.Companies.CanDelete(actor, &id) {
		return domain.ErrForbidden
	}
	ok, err := uc.repo.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func (uc *CompanyUseCase) ensureEmailFree(email, selfID string) error {
	existing, err := uc.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError("email", msgEmailTaken)
	}
	return nil
}

func validateCompanyName(ve *domain.ValidationError, name string, required bool) {
	if name == "" {
		if required {
			ve.Add("name", "Company name is required.")
		} else {
			ve.Add("name", "Company name may not be empty.")
		}
		return
	}
	if len(name) > maxFieldLen {
		ve.Add("name", "Company name may not be greater than 255 characters.")
	}
}

func validateCompanyEmail(ve *domain.ValidationError, email string, required bool) {
	if email == "" {
		if required {
			ve.Add("email", "Company email is required.")
		} else {
			ve.Add("email", "Company email may not be empty.")
		}
		return
	}
	if !validEmail(email) {
		ve.Add("email", "Company email must be a valid email address.")
	}
	if len(email) > maxFieldLen {
		ve.Add("email", "Company email may not be greater than 255 characters.")
	}
}

func validateCompanyWebsite(ve *domain.ValidationError, website string, required bool) {
	if website == "" {
		if required {
			ve.Add("website", "Company website is required.")
		} else {
			ve.Add("website", "Company website may not be empty.")
		}
		return
	}
	if !validURL(website) {
		ve.Add("website", "Company website must be a valid URL.")
	}
	if len(website) > maxFieldLen {
		ve.Add("website", "Company website may not be greater than 255 characters.")
	}
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Website:        c.Website,
		EmployeesCount: c.EmployeesCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
