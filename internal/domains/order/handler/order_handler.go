package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/order/model"
	"hexalib-backend/internal/domains/order/service"
	"hexalib-backend/internal/shared/response"
)

type OrderHandler struct {
	service service.Service
}

func NewOrderHandler(service service.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func respondOrderError(c *gin.Context, err error) {
	code := "ORDER_ERROR"
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		code = orderErr.Code
	}
	response.ErrorResponse(c, model.GetHTTPStatusCode(err), code, err.Error())
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.Create(c.Request.Context(), &req, userID.(uuid.UUID))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.OrderFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid supplier id")
			return
		}
		filter.SupplierID = &supplierID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid from date")
			return
		}
		filter.From = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid to date")
			return
		}
		filter.To = &to
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Limit: filter.Limit,
		Total: int(total),
	})
}

// Update handles PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req model.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusCancelled})
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Receive handles POST /orders/:id/receive
func (h *OrderHandler) Receive(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	// The body is optional; without it the reception is stamped now.
	var req struct {
		ReceivedDate *time.Time `json:"received_date"`
	}
	_ = c.ShouldBindJSON(&req)

	var receivedAt time.Time
	if req.ReceivedDate != nil {
		receivedAt = *req.ReceivedDate
	}

	order, err := h.service.Receive(c.Request.Context(), id, receivedAt, userID.(uuid.UUID))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}
