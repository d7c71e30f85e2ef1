package dto

import "math"

// Límites de paginación. Con Page <= MaxPage el offset (Page-1)*Limit no desborda int.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = math.MaxInt / MaxPageSize
)

// PageRequest paginación por número de página (1-based).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto si Page/Limit son cero o inválidos.
func (p *PageRequest) DefaultPage() {
	p.DefaultPageWith(DefaultPageSize)
}

// DefaultPageWith igual que DefaultPage con un tamaño de página por defecto configurable.
func (p *PageRequest) DefaultPageWith(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = size
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// InRange indica si la página pedida tiene un offset representable.
func (p PageRequest) InRange() bool {
	return p.Page <= MaxPage
}

// Offset filas a saltar para la página pedida.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewPagination calcula los metadatos con totalPages = ceil(total/limit).
func NewPagination(p PageRequest, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNextPage:  p.Page < totalPages,
		HasPrevPage:  p.Page > 1,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo de error con el detalle de stock.
type InsufficientStockResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Current   int64  `json:"current"`
	Requested int64  `json:"requested"`
}
