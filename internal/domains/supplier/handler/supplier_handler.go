package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/supplier/model"
	"hexalib-backend/internal/domains/supplier/service"
	"hexalib-backend/internal/shared/response"
)

type SupplierHandler struct {
	service service.Service
}

func NewSupplierHandler(service service.Service) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req model.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if err == model.ErrDuplicateName {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetByID handles GET /suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supplier id")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == model.ErrSupplierNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.SupplierFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
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

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supplier id")
		return
	}

	var req model.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case model.ErrSupplierNotFound:
			response.NotFound(c, err.Error())
		case model.ErrDuplicateName:
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Activate handles POST /suppliers/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supplier id")
		return
	}

	if err := h.service.Activate(c.Request.Context(), id); err != nil {
		if err == model.ErrSupplierNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusActive})
}

// Deactivate handles POST /suppliers/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supplier id")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		if err == model.ErrSupplierNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusInactive})
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supplier id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case model.ErrSupplierNotFound:
			response.NotFound(c, err.Error())
		case model.ErrSupplierHasOrders:
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
