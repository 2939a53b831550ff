package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/sale/model"
	"hexalib-backend/internal/domains/sale/service"
	userModel "hexalib-backend/internal/domains/user/model"
	"hexalib-backend/internal/shared/response"
)

type SaleHandler struct {
	service service.Service
}

func NewSaleHandler(service service.Service) *SaleHandler {
	return &SaleHandler{service: service}
}

func respondSaleError(c *gin.Context, err error) {
	code := "SALE_ERROR"
	var saleErr *model.SaleError
	if errors.As(err, &saleErr) {
		code = saleErr.Code
	}
	response.ErrorResponse(c, model.GetHTTPStatusCode(err), code, err.Error())
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req model.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	sale, err := h.service.Create(c.Request.Context(), &req, userID.(uuid.UUID))
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sale)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sale id")
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// List handles GET /sales. Sellers only see their own sales; admins can
// filter by seller or see everything.
func (h *SaleHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.SaleFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	role, _ := c.Get("role")
	if role != userModel.RoleAdmin {
		userID, exists := c.Get("userID")
		if !exists {
			response.Unauthorized(c, "not authenticated")
			return
		}
		sellerID := userID.(uuid.UUID)
		filter.SellerID = &sellerID
	} else if raw := c.Query("seller_id"); raw != "" {
		sellerID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid seller id")
			return
		}
		filter.SellerID = &sellerID
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

	sales, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, sales, &response.Meta{
		Limit: filter.Limit,
		Total: int(total),
	})
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sale id")
		return
	}

	// The body is optional; an empty reason is allowed.
	var req model.CancelSaleRequest
	_ = c.ShouldBindJSON(&req)
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Cancel(c.Request.Context(), id, req.Reason, userID.(uuid.UUID))
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// MyDayStats handles GET /sales/stats/me
func (h *SaleHandler) MyDayStats(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	day, ok := parseDay(c)
	if !ok {
		return
	}

	stats, err := h.service.SellerDayStats(c.Request.Context(), userID.(uuid.UUID), day)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// DayStats handles GET /sales/stats
func (h *SaleHandler) DayStats(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}

	stats, err := h.service.GlobalDayStats(c.Request.Context(), day)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("day")
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.BadRequest(c, "invalid day, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
