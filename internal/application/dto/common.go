package dto

import "encoding/json"

// ListRequest parámetros comunes de listado: búsqueda, orden y paginación.
type ListRequest struct {
	Search         string `query:"search"`
	OrderBy        string `query:"order_by"`
	OrderDirection string `query:"order_direction"`
	Page           int    `query:"page"`
	PerPage        int    `query:"per_page"`
}

// PageResponse metadatos de página en respuestas. Con page, per_page, total y
// last_page el cliente deriva existencia de página anterior/siguiente.
type PageResponse struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// NewPageResponse calcula los metadatos de página a partir del total.
func NewPageResponse(page, perPage, total int) PageResponse {
	lastPage := 1
	if total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	return PageResponse{Page: page, PerPage: perPage, Total: total, LastPage: lastPage}
}

// OptionalString modela un campo JSON que puede venir ausente, null o con
// valor. Ausente: Set=false. null: Set=true, Value=nil. Los partial updates
// necesitan las tres variantes (ej. company_id de User).
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON marca el campo como presente y captura el valor (o null).
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"` // campo → mensaje (validación)
}
