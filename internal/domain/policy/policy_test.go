package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/policy"
)

func adminActor() entity.Actor {
	return entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
}

func companyActor(companyID string) entity.Actor {
	return entity.Actor{UserID: "u-company", Role: entity.RoleCompany, CompanyID: &companyID}
}

func strPtr(s string) *string { return &s }

// El admin puede todo, sobre cualquier recurso.
func TestRuleset_AdminPuedeTodo(t *testing.T) {
	admin := adminActor()
	otra := strPtr("c-otra")

	for _, rs := range []policy.Ruleset{policy.Companies, policy.Employees, policy.Users} {
		assert.True(t, rs.CanViewAny(admin), "%s: viewAny", rs.Resource)
		assert.True(t, rs.CanView(admin, otra), "%s: view", rs.Resource)
		assert.True(t, rs.CanCreate(admin), "%s: create", rs.Resource)
		assert.True(t, rs.CanUpdate(admin, otra), "%s: update", rs.Resource)
		assert.True(t, rs.CanDelete(admin, otra), "%s: delete", rs.Resource)
	}
}

// Un usuario company ve y actualiza solo lo de su propia empresa.
func TestRuleset_CompanyVeYActualizaSoloLoPropio(t *testing.T) {
	actor := companyActor("c-1")
	propia := strPtr("c-1")
	ajena := strPtr("c-2")

	for _, rs := range []policy.Ruleset{policy.Companies, policy.Employees, policy.Users} {
		assert.True(t, rs.CanViewAny(actor), "%s: viewAny siempre permitido", rs.Resource)
		assert.True(t, rs.CanView(actor, propia), "%s: view propio", rs.Resource)
		assert.False(t, rs.CanView(actor, ajena), "%s: view ajeno", rs.Resource)
		assert.True(t, rs.CanUpdate(actor, propia), "%s: update propio", rs.Resource)
		assert.False(t, rs.CanUpdate(actor, ajena), "%s: update ajeno", rs.Resource)
	}
}

// Create/Delete: solo Employees habilita al rol company, y solo sobre su empresa.
func TestRuleset_CreateDeletePorRecurso(t *testing.T) {
	actor := companyActor("c-1")
	propia := strPtr("c-1")
	ajena := strPtr("c-2")

	assert.False(t, policy.Companies.CanCreate(actor), "company no crea empresas")
	assert.False(t, policy.Users.CanCreate(actor), "company no crea usuarios")
	assert.True(t, policy.Employees.CanCreate(actor), "company sí crea empleados")

	assert.False(t, policy.Companies.CanDelete(actor, propia), "company no borra empresas")
	assert.False(t, policy.Users.CanDelete(actor, propia), "company no borra usuarios")
	assert.True(t, policy.Employees.CanDelete(actor, propia), "company borra empleados propios")
	assert.False(t, policy.Employees.CanDelete(actor, ajena), "company no borra empleados ajenos")
}

// Un recurso sin empresa dueña (p.ej. un usuario admin) nunca es accesible
// para el rol company.
func TestRuleset_RecursoSinEmpresaDuena(t *testing.T) {
	actor := companyActor("c-1")

	assert.False(t, policy.Users.CanView(actor, nil))
	assert.False(t, policy.Users.CanUpdate(actor, nil))
	assert.False(t, policy.Employees.CanDelete(actor, nil))
}

// Un actor company sin empresa asignada (estado inconsistente) no pasa
// ninguna verificación de propiedad.
func TestRuleset_ActorCompanySinEmpresa(t *testing.T) {
	actor := entity.Actor{UserID: "u-x", Role: entity.RoleCompany}
	propia := strPtr("c-1")

	assert.False(t, actor.OwnsCompany("c-1"))
	assert.False(t, policy.Companies.CanView(actor, propia))
	assert.False(t, policy.Employees.CanDelete(actor, propia))
}
