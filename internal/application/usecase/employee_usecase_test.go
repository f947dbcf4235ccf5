package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minicrm-api/internal/application/dto"
	"github.com/jhoicas/minicrm-api/internal/application/usecase"
	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/pkg/logger"
)

type employeeFixture struct {
	uc       *usecase.EmployeeUseCase
	repo     *fakeEmployeeRepo
	company  *fakeCompanyRepo
	notifier *fakeNotifier
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	f := &employeeFixture{
		repo:     newFakeEmployeeRepo(),
		company:  newFakeCompanyRepo(),
		notifier: newFakeNotifier(),
	}
	f.uc = usecase.NewEmployeeUseCase(f.repo, f.company, f.notifier, logger.NewNop())
	seedCompany(t, f.company, "c-1", "Acme", "info@acme-corp.com")
	seedCompany(t, f.company, "c-2", "Globex", "info@globex.com")
	return f
}

func seedEmployee(t *testing.T, repo *fakeEmployeeRepo, id, email, companyID string) *entity.Employee {
	t.Helper()
	now := time.Now().UTC()
	e := &entity.Employee{
		ID: id, FirstName: "John", LastName: "Doe", Email: email,
		Phone: "+1-555-123-4567", CompanyID: companyID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(e))
	return e
}

// waitNotice espera la notificación en background con timeout.
func (f *employeeFixture) waitNotice(t *testing.T) {
	t.Helper()
	select {
	case <-f.notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("la notificación de alta nunca se envió")
	}
}

func TestEmployeeCreate_AdminEligeEmpresa(t *testing.T) {
	f := newEmployeeFixture(t)

	out, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-2", out.CompanyID)
	assert.Equal(t, "Globex", out.CompanyName)
	assert.Equal(t, "Jane Smith", out.FullName)
}

func TestEmployeeCreate_CompanyIDForzadoParaRolCompany(t *testing.T) {
	f := newEmployeeFixture(t)

	// El payload pide c-2; el caso de uso lo fuerza a la empresa del actor.
	out, err := f.uc.Create(companyActor("c-1"), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", out.CompanyID, "el company_id enviado se descarta")
	assert.Equal(t, "Acme", out.CompanyName)
}

func TestEmployeeCreate_RolCompanySinEmpresaEsForbidden(t *testing.T) {
	f := newEmployeeFixture(t)

	// Un token firmado puede traer rol company con company_id vacío; ese actor
	// no pertenece a ninguna empresa y la operación se rechaza sin panic.
	huerfano := entity.Actor{UserID: "u-huerfano", Role: entity.RoleCompany}
	_, err := f.uc.Create(huerfano, dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-1",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.notifier.sent())
}

func TestEmployeeCreate_EmpresaInexistente(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-fantasma",
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "empresa inexistente es error de validación, no not-found")
	assert.Equal(t, "The selected company does not exist.", ve.Fields["company_id"])
	assert.Empty(t, f.notifier.sent(), "un alta fallida no notifica")
}

func TestEmployeeCreate_CamposRequeridos(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{CompanyID: "c-1"})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Employee first name is required.", ve.Fields["first_name"])
	assert.Equal(t, "Employee last name is required.", ve.Fields["last_name"])
	assert.Equal(t, "Employee email is required.", ve.Fields["email"])
	assert.Equal(t, "Employee phone number is required.", ve.Fields["phone"])
}

func TestEmployeeCreate_NotificaALaEmpresa(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-1",
	})
	require.NoError(t, err)
	f.waitNotice(t)

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Jane Smith", sent[0].EmployeeName)
	assert.Equal(t, "info@acme-corp.com", sent[0].CompanyEmail, "la notificación va al email de la empresa")
}

func TestEmployeeCreate_FalloDeNotificacionNoRevierte(t *testing.T) {
	f := newEmployeeFixture(t)
	f.notifier.failErr = errors.New("smtp caído")

	out, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-1",
	})
	require.NoError(t, err, "el alta es válida aunque el correo falle")
	f.waitNotice(t)

	stored, err := f.repo.GetByID(out.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "el empleado queda persistido")
}

func TestEmployeeCreate_EmailDuplicado(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-1", "jane.smith@example.com", "c-1")

	_, err := f.uc.Create(adminActor(), dto.CreateEmployeeRequest{
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com",
		Phone: "+1-555-987-6543", CompanyID: "c-1",
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "This email address is already registered.", ve.Fields["email"])
	assert.Empty(t, f.notifier.sent())
}

func TestEmployeeList_ScopeAntesQueSearch(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-1", "john.doe@example.com", "c-1")
	seedEmployee(t, f.repo, "e-2", "jane.roe@example.com", "c-2")

	// Buscar por un término que matchea al empleado de c-2 no lo expone.
	out, err := f.uc.List(companyActor("c-1"), dto.ListRequest{Search: "roe"})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	out, err = f.uc.List(companyActor("c-1"), dto.ListRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "e-1", out.Items[0].ID)

	out, err = f.uc.List(adminActor(), dto.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestEmployeeGetByID_FueraDeScopeEs403(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-2", "jane.roe@example.com", "c-2")

	_, err := f.uc.GetByID(companyActor("c-1"), "e-2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.GetByID(adminActor(), "e-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeUpdate_RolCompanyNoMigraEmpleados(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-1", "john.doe@example.com", "c-1")

	// El actor company intenta mover su empleado a c-2: el company_id se fuerza
	// de vuelta a c-1 y el empleado no cambia de empresa.
	out, err := f.uc.Update(companyActor("c-1"), "e-1", dto.UpdateEmployeeRequest{
		CompanyID: strPtr("c-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", out.CompanyID)
}

func TestEmployeeUpdate_AdminMigraEmpleado(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-1", "john.doe@example.com", "c-1")

	out, err := f.uc.Update(adminActor(), "e-1", dto.UpdateEmployeeRequest{
		CompanyID: strPtr("c-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "c-2", out.CompanyID)
	assert.Equal(t, "Globex", out.CompanyName)

	_, err = f.uc.Update(adminActor(), "e-1", dto.UpdateEmployeeRequest{
		CompanyID: strPtr("c-fantasma"),
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "The selected company does not exist.", ve.Fields["company_id"])
}

func TestEmployeeUpdate_SinCambiosNoTocaLaFila(t *testing.T) {
	f := newEmployeeFixture(t)
	e := seedEmployee(t, f.repo, "e-1", "john.doe@example.com", "c-1")

	out, err := f.uc.Update(adminActor(), "e-1", dto.UpdateEmployeeRequest{
		FirstName: strPtr("John"),
		Email:     strPtr("john.doe@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, e.UpdatedAt, out.UpdatedAt)
}

func TestEmployeeDelete_RolCompanySoloLosSuyos(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployee(t, f.repo, "e-1", "john.doe@example.com", "c-1")
	seedEmployee(t, f.repo, "e-2", "jane.roe@example.com", "c-2")

	require.NoError(t, f.uc.Delete(companyActor("c-1"), "e-1"))
	assert.ErrorIs(t, f.uc.Delete(companyActor("c-1"), "e-2"), domain.ErrForbidden)
}
