package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
	"github.com/tappress/checkbox/internal/service"
)

// ReceiptHandler handles receipt endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// CreateReceiptProductRequest is one line item of a receipt creation request.
type CreateReceiptProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
}

// CreateReceiptPaymentRequest is the payment part of a receipt creation request.
type CreateReceiptPaymentRequest struct {
	Type   string          `json:"type" validate:"required,oneof=CASH CARD"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateReceiptRequest represents a receipt creation request.
type CreateReceiptRequest struct {
	Products []CreateReceiptProductRequest `json:"products" validate:"required,min=1,dive"`
	Payment  CreateReceiptPaymentRequest   `json:"payment"`
}

// ReceiptProductResponse is one line item of a receipt response.
type ReceiptProductResponse struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// ReceiptPaymentResponse is the payment part of a receipt response.
type ReceiptPaymentResponse struct {
	Type   model.PaymentType `json:"type"`
	Amount decimal.Decimal   `json:"amount"`
}

// ReceiptResponse is the JSON shape of a receipt.
type ReceiptResponse struct {
	ID        string                   `json:"id"`
	Products  []ReceiptProductResponse `json:"products"`
	Total     decimal.Decimal          `json:"total"`
	Payment   ReceiptPaymentResponse   `json:"payment"`
	Rest      decimal.Decimal          `json:"rest"`
	CreatedAt time.Time                `json:"created_at"`
}

// OffsetResponse is one page of receipts plus the total match count.
type OffsetResponse struct {
	Items []ReceiptResponse `json:"items"`
	Total int64             `json:"total"`
}

func newReceiptResponse(receipt *model.Receipt) ReceiptResponse {
	products := make([]ReceiptProductResponse, 0, len(receipt.Products))
	for _, p := range receipt.Products {
		products = append(products, ReceiptProductResponse{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    p.Total,
		})
	}
	return ReceiptResponse{
		ID:       receipt.ID,
		Products: products,
		Total:    receipt.Total,
		Payment: ReceiptPaymentResponse{
			Type:   receipt.PaymentType,
			Amount: receipt.PaymentAmount,
		},
		Rest:      receipt.Rest,
		CreatedAt: receipt.CreatedAt,
	}
}

// Create godoc
// @Summary Create a receipt
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReceiptRequest true "Receipt data"
// @Success 201 {object} ReceiptResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c echo.Context) error {
	var req CreateReceiptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.CreateReceiptInput{
		Products: make([]service.CreateReceiptProduct, 0, len(req.Products)),
		Payment: service.ReceiptPayment{
			Type:   model.PaymentType(req.Payment.Type),
			Amount: req.Payment.Amount,
		},
	}
	for _, p := range req.Products {
		if p.Price.IsNegative() {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %q has a negative price", p.Name))
		}
		input.Products = append(input.Products, service.CreateReceiptProduct{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
		})
	}

	receipt, err := h.receiptService.Create(c.Request().Context(), currentUser(c).ID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, newReceiptResponse(receipt))
}

// List godoc
// @Summary List the caller's receipts with filtering and pagination
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Inclusive creation lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param end_date query string false "Inclusive creation upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param payment_type query string false "CASH or CARD"
// @Param min_total query string false "Minimum receipt total"
// @Param offset query int false "Rows to skip" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {object} OffsetResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /receipts [get]
func (h *ReceiptHandler) List(c echo.Context) error {
	filter, err := parseReceiptFilter(c)
	if err != nil {
		return err
	}

	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil || limit < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
	}

	receipts, total, err := h.receiptService.List(c.Request().Context(), currentUser(c).ID, filter, offset, limit)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		items = append(items, newReceiptResponse(&receipts[i]))
	}
	return c.JSON(http.StatusOK, OffsetResponse{Items: items, Total: total})
}

// GetByID godoc
// @Summary Get one of the caller's receipts
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receipt id"
// @Success 200 {object} ReceiptResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c echo.Context) error {
	receipt, err := h.receiptService.GetUserReceipt(c.Request().Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newReceiptResponse(receipt))
}

// GetPlaintext godoc
// @Summary Get the plaintext rendering of a receipt
// @Tags receipts
// @Produce plain
// @Param id path string true "Receipt id"
// @Param line_length query int false "Line width" default(32) minimum(20) maximum(50)
// @Success 200 {string} string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/plaintext [get]
func (h *ReceiptHandler) GetPlaintext(c echo.Context) error {
	text, err := h.plaintext(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, text)
}

// DownloadPlaintext godoc
// @Summary Download the plaintext rendering of a receipt as a file
// @Tags receipts
// @Produce plain
// @Param id path string true "Receipt id"
// @Param line_length query int false "Line width" default(32) minimum(20) maximum(50)
// @Success 200 {string} string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/plaintext/download [get]
func (h *ReceiptHandler) DownloadPlaintext(c echo.Context) error {
	text, err := h.plaintext(c)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("receipt_%s.txt", c.Param("id"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.String(http.StatusOK, text)
}

func (h *ReceiptHandler) plaintext(c echo.Context) (string, error) {
	lineLength, err := queryInt(c, "line_length", service.DefaultLineLength)
	if err != nil || lineLength < service.MinLineLength || lineLength > service.MaxLineLength {
		return "", echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("line_length must be an integer between %d and %d", service.MinLineLength, service.MaxLineLength))
	}

	text, err := h.receiptService.GetPlaintext(c.Request().Context(), c.Param("id"), lineLength)
	if err != nil {
		return "", respondError(c, err)
	}
	return text, nil
}

func parseReceiptFilter(c echo.Context) (repository.ReceiptFilter, error) {
	var filter repository.ReceiptFilter

	if raw := c.QueryParam("start_date"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid start_date")
		}
		filter.StartDate = &t
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid end_date")
		}
		filter.EndDate = &t
	}
	if raw := c.QueryParam("payment_type"); raw != "" {
		paymentType := model.PaymentType(raw)
		if !paymentType.Valid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "payment_type must be CASH or CARD")
		}
		filter.PaymentType = &paymentType
	}
	if raw := c.QueryParam("min_total"); raw != "" {
		minTotal, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid min_total")
		}
		filter.MinTotal = &minTotal
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps with a date-only fallback.
func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time value %q", raw)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
