package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/category/model"
	"hexalib-backend/internal/domains/category/service"
	"hexalib-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.Service
}

func NewCategoryHandler(service service.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case model.ErrDuplicateName, model.ErrDuplicateCode:
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetByID handles GET /categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == model.ErrCategoryNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.CategoryFilter{
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

// Update handles PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case model.ErrCategoryNotFound:
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

// Activate handles POST /categories/:id/activate
func (h *CategoryHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.service.Activate(c.Request.Context(), id); err != nil {
		if err == model.ErrCategoryNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusActive})
}

// Deactivate handles POST /categories/:id/deactivate
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		if err == model.ErrCategoryNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusInactive})
}

// Delete handles DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case model.ErrCategoryNotFound:
			response.NotFound(c, err.Error())
		case model.ErrCategoryHasBooks:
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
