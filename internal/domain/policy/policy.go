// Package policy implementa el motor de autorización del CRM: funciones puras y
// deterministas que deciden, por (actor, recurso, acción), si la operación
// procede. No toca el store; un chequeo fallido corta antes de cualquier acceso
// o mutación.
package policy

import "github.com/jhoicas/minicrm-api/internal/domain/entity"

// Ruleset parametriza las reglas de un recurso. Las cinco acciones tienen la
// misma forma para Company, Employee y User; lo único que varía entre entidades
// es si el rol company puede crear y borrar dentro de su propia empresa.
type Ruleset struct {
	Resource          string // companies | employees | users
	CompanyRoleCreate bool   // rol company puede crear (scoped a su empresa)
	CompanyRoleDelete bool   // rol company puede borrar (scoped a su empresa)
}

// Rulesets por entidad. Espejo de las políticas del recurso: solo Employee
// permite crear/borrar al rol company.
var (
	Companies = Ruleset{Resource: "companies"}
	Employees = Ruleset{Resource: "employees", CompanyRoleCreate: true, CompanyRoleDelete: true}
	Users     = Ruleset{Resource: "users"}
)

// CanViewAny: cualquier actor autenticado (admin o company) puede listar.
// El listado igualmente se recorta a su scope en la capa de consulta.
func (r Ruleset) CanViewAny(a entity.Actor) bool {
	return a.IsAdmin() || a.IsCompanyUser()
}

// CanView: admin siempre; rol company solo si el recurso pertenece a su empresa.
// ownerCompanyID es el id de la empresa dueña del recurso (el propio id para
// Company, company_id para Employee/User); nil significa sin dueña (user admin).
func (r Ruleset) CanView(a entity.Actor, ownerCompanyID *string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsCompanyUser() && ownerCompanyID != nil && a.OwnsCompany(*ownerCompanyID)
}

// CanCreate: admin siempre; rol company solo donde el ruleset lo habilita
// (empleados). El recorte a su propia empresa lo aplica el coordinador de
// mutaciones forzando company_id.
func (r Ruleset) CanCreate(a entity.Actor) bool {
	if a.IsAdmin() {
		return true
	}
	return r.CompanyRoleCreate && a.IsCompanyUser()
}

// CanUpdate: admin siempre; rol company solo sobre recursos de su empresa.
func (r Ruleset) CanUpdate(a entity.Actor, ownerCompanyID *string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsCompanyUser() && ownerCompanyID != nil && a.OwnsCompany(*ownerCompanyID)
}

// CanDelete: admin siempre; rol company solo donde el ruleset lo habilita y
// sobre recursos de su empresa.
func (r Ruleset) CanDelete(a entity.Actor, ownerCompanyID *string) bool {
	if a.IsAdmin() {
		return true
	}
	if !r.CompanyRoleDelete {
		return false
	}
	return a.IsCompanyUser() && ownerCompanyID != nil && a.OwnsCompany(*ownerCompanyID)
}
