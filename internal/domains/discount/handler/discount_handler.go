package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/discount/model"
	"hexalib-backend/internal/domains/discount/service"
	"hexalib-backend/internal/shared/response"
)

type DiscountHandler struct {
	service service.Service
}

func NewDiscountHandler(service service.Service) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// Create handles POST /discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var req model.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetByID handles GET /discounts/:id
func (h *DiscountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount id")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == model.ErrDiscountNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List handles GET /discounts
func (h *DiscountHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.DiscountFilter{
		Scope:   c.Query("scope"),
		Expired: c.Query("expired") == "true",
		Limit:   limit,
		Offset:  offset,
	}

	if c.Query("valid") == "true" {
		now := time.Now()
		filter.ValidOn = &now
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

// Update handles PUT /discounts/:id
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount id")
		return
	}

	var req model.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		if err == model.ErrDiscountNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Delete handles DELETE /discounts/:id
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if err == model.ErrDiscountNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
