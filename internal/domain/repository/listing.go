package repository

// ListOptions parametriza los listados con scope, búsqueda, orden y paginación.
// Scope se aplica en SQL ANTES de search/sort: una fila fuera del scope del
// actor nunca entra al resultado, sin importar los parámetros.
type ListOptions struct {
	// Scope limita las filas a la empresa indicada (Company: id; Employee/User:
	// company_id). nil = sin límite (actor admin).
	Scope *string
	// Search es un término de búsqueda por substring, case-insensitive, con OR
	// sobre los campos de texto de cada entidad.
	Search string
	// SortBy es una clave de orden de la allow-list de la entidad; una clave
	// desconocida cae al orden por defecto en lugar de fallar.
	SortBy string
	// SortDir es asc o desc (default asc).
	SortDir string
	Page    int
	PerPage int
}

// Normalize aplica defaults de paginación y dirección.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 15
	}
	if o.PerPage > 100 {
		o.PerPage = 100
	}
	if o.SortDir != "desc" {
		o.SortDir = "asc"
	}
}

// Offset devuelve el offset SQL equivalente a la página actual.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PerPage
}
