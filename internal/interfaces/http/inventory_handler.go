package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de stock por tienda (protegido).
type InventoryHandler struct {
	stock *inventory.StockService
	query *inventory.QueryService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockService, query *inventory.QueryService) *InventoryHandler {
	return &InventoryHandler{stock: stock, query: query}
}

// GetCurrentStock godoc
// @Summary      Stock actual por tienda y producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId    query  string  false  "Filtrar por tienda"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Param        page       query  int     false  "Página (1 por defecto)"
// @Param        limit      query  int     false  "Tamaño de página (10 por defecto, máx. 100)"
// @Success      200  {object}  dto.StockListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory [get]
func (h *InventoryHandler) GetCurrentStock(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	filter := inventory.CurrentStockFilter{
		StoreID:   c.Query("storeId"),
		ProductID: c.Query("productId"),
	}
	out, err := h.query.GetCurrentStock(c.UserContext(), GetScope(c), filter, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Registrar movimiento de stock (ADD, RESTOCK, SALE)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "storeId, productId, quantity (> 0), action"
// @Success      200   {object}  dto.StockMutationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/v1/inventory [post]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.stock.UpdateStock(c.UserContext(), GetScope(c), inventory.UpdateStockInput{
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Action:    in.Action,
		Actor:     principalOf(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateStockEntry godoc
// @Summary      Alta de stock inicial de un producto en una tienda
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "storeId, productId, initialStock (> 0)"
// @Success      201   {object}  dto.StockMutationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/create [post]
func (h *InventoryHandler) CreateStockEntry(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.stock.CreateStockEntry(c.UserContext(), GetScope(c), inventory.CreateStockEntryInput{
		StoreID:      in.StoreID,
		ProductID:    in.ProductID,
		InitialStock: in.InitialStock,
		Actor:        principalOf(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetHistory godoc
// @Summary      Historial del diario de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId    query  string  false  "Filtrar por tienda"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Param        action     query  string  false  "ADD | RESTOCK | SALE"
// @Param        startDate  query  string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Param        endDate    query  string  false  "RFC3339 o YYYY-MM-DD (inclusive, hasta el final del día)"
// @Param        page       query  int     false  "Página"
// @Param        limit      query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.StockHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/history [get]
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	from, err := parseDate(c.Query("startDate"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "startDate inválido"})
	}
	to, err := parseDate(c.Query("endDate"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "endDate inválido"})
	}
	out, err := h.query.GetHistory(c.UserContext(), GetScope(c), inventory.HistoryFilter{
		StoreID:   c.Query("storeId"),
		ProductID: c.Query("productId"),
		Action:    c.Query("action"),
		From:      from,
		To:        to,
	}, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLowStockAlerts godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Stock máximo incluido (ausente o 0 usa LOW_STOCK_DEFAULT_THRESHOLD)"
// @Success      200  {object}  dto.LowStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	var threshold *int64
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "threshold inválido"})
		}
		threshold = &v
	}
	out, err := h.query.GetLowStockAlerts(c.UserContext(), GetScope(c), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteStockEntry godoc
// @Summary      Baja de la entrada de stock de un producto en una tienda
// @Description  Registra una venta por todo el stock restante y marca la entrada como eliminada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId    path  string  true  "Tienda"
// @Param        productId  path  string  true  "Producto"
// @Success      200  {object}  dto.StockMutationResult
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{storeId}/{productId} [delete]
func (h *InventoryHandler) DeleteStockEntry(c *fiber.Ctx) error {
	out, err := h.stock.DeleteStockEntry(c.UserContext(), GetScope(c), c.Params("storeId"), c.Params("productId"), principalOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func principalOf(c *fiber.Ctx) entity.Principal {
	if p := GetPrincipal(c); p != nil {
		return *p
	}
	return entity.Principal{}
}

// pageFromQuery lee page/limit; valores no numéricos son ErrInvalidInput, ausentes usan los defaults.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, domain.ErrInvalidInput
	}
	return p, nil
}

// parseDate acepta RFC3339 o YYYY-MM-DD; con endOfDay una fecha sin hora cubre el día completo.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
