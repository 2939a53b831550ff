package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/stock/model"
	"hexalib-backend/internal/domains/stock/service"
	"hexalib-backend/internal/shared/response"
)

type StockHandler struct {
	service service.Service
}

func NewStockHandler(service service.Service) *StockHandler {
	return &StockHandler{service: service}
}

// Adjust handles POST /stock/movements
func (h *StockHandler) Adjust(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req model.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	movement, err := h.service.Adjust(c.Request.Context(), &req, userID.(uuid.UUID))
	if err != nil {
		switch err {
		case model.ErrBookNotFound:
			response.NotFound(c, err.Error())
		case model.ErrNegativeStock, model.ErrInvalidQuantity, model.ErrUnknownType:
			response.BadRequest(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, movement)
}

// List handles GET /stock/movements
func (h *StockHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.MovementFilter{
		Type:   c.Query("type"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("book_id"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid book id")
			return
		}
		filter.BookID = &bookID
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid user id")
			return
		}
		filter.UserID = &userID
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

	results, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, results, &response.Meta{
		Limit: filter.Limit,
		Total: int(total),
	})
}

// History handles GET /stock/movements/book/:id
func (h *StockHandler) History(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	results, err := h.service.History(c.Request.Context(), bookID)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, results)
}
