package dto

import "time"

// DefaultLimit tamaño de página cuando el cliente no envía limit.
const DefaultLimit = 10

// MaxLimit tope de limit aceptado en listados.
const MaxLimit = 100

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int    `query:"limit" validate:"min=0"`
	Offset int    `query:"offset" validate:"min=0"`
	Search string `query:"search" validate:"max=100"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. Pages = ceil(Total/Limit).
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// NewPage calcula los metadatos de página.
func NewPage(limit, offset, total int) PageResponse {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PageResponse{Limit: limit, Offset: offset, Total: total, Pages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Status     string    `json:"status"`
	Error      string    `json:"error"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
}
