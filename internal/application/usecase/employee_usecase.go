package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/minicrm-api/internal/application/dto"
	"github.com/jhoicas/minicrm-api/internal/application/notify"
	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/policy"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
	"github.com/jhoicas/minicrm-api/pkg/logger"
)

// EmployeeUseCase aplica reglas de negocio para empleados. Además del CRUD con
// scope, coordina las dos reglas cruzadas: company_id forzado para actores con
// rol company y verificación de existencia de la empresa referenciada; y
// dispara la notificación de alta al email de la empresa (best-effort).
type EmployeeUseCase struct {
	repo        repository.EmployeeRepository
	companyRepo repository.CompanyRepository
	notifier    notify.Notifier
	log         *logger.Logger
}

// NewEmployeeUseCase construye el caso de uso. notifier puede ser nil
// (notificaciones deshabilitadas, ej. en tests).
func NewEmployeeUseCase(repo repository.EmployeeRepository, companyRepo repository.CompanyRepository, notifier notify.Notifier, log *logger.Logger) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo, companyRepo: companyRepo, notifier: notifier, log: log}
}

// List devuelve la página de empleados visibles para el actor, con búsqueda y
// orden. El scope se aplica antes de search/sort: un actor company nunca recibe
// empleados de otra empresa.
func (uc *EmployeeUseCase) List(actor entity.Actor, in dto.ListRequest) (*dto.EmployeeListResponse, error) {
	if !policy.Employees.CanViewAny(actor) {
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
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *entityToEmployeeResponse(e))
	}
	return &dto.EmployeeListResponse{
		Items: items,
		Page:  dto.NewPageResponse(opts.Page, opts.PerPage, total),
	}, nil
}

// GetByID obtiene un empleado visible para el actor.
func (uc *EmployeeUseCase) GetByID(actor entity.Actor, id string) (*dto.EmployeeResponse, error) {
	emp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Employees.CanView(actor, &emp.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return entityToEmployeeResponse(emp), nil
}

// Create crea un empleado. Para actores company el company_id enviado se
// descarta y se usa el de su propia empresa (evita escalada por payload).
// Tras persistir dispara la notificación a la empresa en segundo plano; un
// fallo de envío se registra y nunca revierte el alta.
func (uc *EmployeeUseCase) Create(actor entity.Actor, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if !policy.Employees.CanCreate(actor) {
		return nil, domain.ErrForbidden
	}

	in.FirstName = trimmed(in.FirstName)
	in.LastName = trimmed(in.LastName)
	in.Email = trimmed(in.Email)
	in.Phone = trimmed(in.Phone)
	in.CompanyID = trimmed(in.CompanyID)

	if actor.IsCompanyUser() {
		// Un token con rol company pero sin company_id no pertenece a ninguna
		// empresa: no puede crear empleados en nombre de nadie.
		if actor.CompanyID == nil {
			return nil, domain.ErrForbidden
		}
		in.CompanyID = *actor.CompanyID
	}

	ve := &domain.ValidationError{}
	validateEmployeeFields(ve, in.FirstName, in.LastName, in.Email, in.Phone)
	if in.CompanyID == "" {
		ve.Add("company_id", msgCompanyRequired)
	}
	if !ve.Empty() {
		return nil, ve
	}

	company, err := uc.companyRepo.GetByID(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewValidationError("company_id", msgCompanyMissing)
	}
	if err := uc.ensureEmailFree(in.Email, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	emp := &entity.Employee{
		ID:          uuid.New().String(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		CompanyID:   company.ID,
		CompanyName: company.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(emp); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}

	uc.dispatchCreatedNotice(emp, company)

	return entityToEmployeeResponse(emp), nil
}

// Update aplica un partial update sobre un empleado del scope del actor. Un
// actor company que envíe company_id lo tiene forzado al de su empresa; un
// admin que lo cambie necesita que la empresa destino exista.
func (uc *EmployeeUseCase) Update(actor entity.Actor, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.Employees.CanUpdate(actor, &emp.CompanyID) {
		return nil, domain.ErrForbidden
	}

	if in.CompanyID != nil && actor.IsCompanyUser() {
		if actor.CompanyID == nil {
			return nil, domain.ErrForbidden
		}
		in.CompanyID = actor.CompanyID
	}

	ve := &domain.ValidationError{}
	if in.FirstName != nil {
		*in.FirstName = trimmed(*in.FirstName)
		if *in.FirstName == "" {
			ve.Add("first_name", "Employee first name may not be empty.")
		} else if len(*in.FirstName) > maxFieldLen {
			ve.Add("first_name", "Employee first name may not be greater than 255 characters.")
		}
	}
	if in.LastName != nil {
		*in.LastName = trimmed(*in.LastName)
		if *in.LastName == "" {
			ve.Add("last_name", "Employee last name may not be empty.")
		} else if len(*in.LastName) > maxFieldLen {
			ve.Add("last_name", "Employee last name may not be greater than 255 characters.")
		}
	}
	if in.Email != nil {
		*in.Email = trimmed(*in.Email)
		if *in.Email == "" || !validEmail(*in.Email) {
			ve.Add("email", "Employee email must be a valid email address.")
		} else if len(*in.Email) > maxFieldLen {
			ve.Add("email", "Employee email may not be greater than 255 characters.")
		}
	}
	if in.Phone != nil {
		*in.Phone = trimmed(*in.Phone)
		if len(*in.Phone) > maxFieldLen {
			ve.Add("phone", "Employee phone number may not be greater than 255 characters.")
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	if in.CompanyID != nil && *in.CompanyID != emp.CompanyID {
		company, err := uc.companyRepo.GetByID(*in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.NewValidationError("company_id", msgCompanyMissing)
		}
		emp.CompanyName = company.Name
	}
	if in.Email != nil && *in.Email != emp.Email {
		if err := uc.ensureEmailFree(*in.Email, emp.ID); err != nil {
			return nil, err
		}
	}

	changed := false
	if in.FirstName != nil && *in.FirstName != emp.FirstName {
		emp.FirstName = *in.FirstName
		changed = true
	}
	if in.LastName != nil && *in.LastName != emp.LastName {
		emp.LastName = *in.LastName
		changed = true
	}
	if in.Email != nil && *in.Email != emp.Email {
		emp.Email = *in.Email
		changed = true
	}
	if in.Phone != nil && *in.Phone != emp.Phone {
		emp.Phone = *in.Phone
		changed = true
	}
	if in.CompanyID != nil && *in.CompanyID != emp.CompanyID {
		emp.CompanyID = *in.CompanyID
		changed = true
	}
	if !changed {
		return entityToEmployeeResponse(emp), nil
	}

	emp.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(emp); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return entityToEmployeeResponse(emp), nil
}

// Delete elimina un empleado del scope del actor.
func (uc *EmployeeUseCase) Delete(actor entity.Actor, id string) error {
	emp, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if emp == nil {
		return domain.ErrNotFound
	}
	if !policy.Employees.CanDelete(actor, &emp.CompanyID) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

// dispatchCreatedNotice envía la notificación de alta en una goroutine. El
// create ya está commiteado: cualquier error de envío se loggea y se descarta.
func (uc *EmployeeUseCase) dispatchCreatedNotice(emp *entity.Employee, company *entity.Company) {
	if uc.notifier == nil {
		return
	}
	notice := notify.EmployeeCreatedNotice{
		EmployeeName:  emp.FullName(),
		EmployeeEmail: emp.Email,
		EmployeePhone: emp.Phone,
		CompanyName:   company.Name,
		CompanyEmail:  company.Email,
		CreatedAt:     emp.CreatedAt,
	}
	go func() {
		if err := uc.notifier.EmployeeCreated(notice); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).
				Str("company_email", notice.CompanyEmail).
				Str("employee", notice.EmployeeName).
				Msg("notificación de alta de empleado falló")
		}
	}()
}

func (uc *EmployeeUseCase) ensureEmailFree(email, selfID string) error {
	existing, err := uc.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError("email", msgEmailTaken)
	}
	return nil
}

func validateEmployeeFields(ve *domain.ValidationError, firstName, lastName, email, phone string) {
	if firstName == "" {
		ve.Add("first_name", "Employee first name is required.")
	} else if len(firstName) > maxFieldLen {
		ve.Add("first_name", "Employee first name may not be greater than 255 characters.")
	}
	if lastName == "" {
		ve.Add("last_name", "Employee last name is required.")
	} else if len(lastName) > maxFieldLen {
		ve.Add("last_name", "Employee last name may not be greater than 255 characters.")
	}
	if email == "" {
		ve.Add("email", "Employee email is required.")
	} else if !validEmail(email) {
		ve.Add("email", "Employee email must be a valid email address.")
	} else if len(email) > maxFieldLen {
		ve.Add("email", "Employee email may not be greater than 255 characters.")
	}
	if phone == "" {
		ve.Add("phone", "Employee phone number is required.")
	} else if len(phone) > maxFieldLen {
		ve.Add("phone", "Employee phone number may not be greater than 255 characters.")
	}
}

func entityToEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	if e == nil {
		return nil
	}
	return &dto.EmployeeResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		FullName:    e.FullName(),
		Email:       e.Email,
		Phone:       e.Phone,
		CompanyID:   e.CompanyID,
		CompanyName: e.CompanyName,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
