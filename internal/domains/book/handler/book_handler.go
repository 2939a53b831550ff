package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/book/model"
	"hexalib-backend/internal/domains/book/service"
	"hexalib-backend/internal/shared/response"
)

type BookHandler struct {
	service service.Service
}

func NewBookHandler(service service.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case model.ErrCategoryNotFound:
			response.NotFound(c, err.Error())
		case model.ErrDuplicateISBN, model.ErrDuplicateCode:
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetByID handles GET /books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == model.ErrBookNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &model.BookFilter{
		Search:      c.Query("search"),
		StockStatus: c.Query("stock_status"),
		Status:      c.Query("status"),
		Limit:       limit,
		Offset:      offset,
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return
		}
		filter.CategoryID = &categoryID
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

// ListLowStock handles GET /books/low-stock
func (h *BookHandler) ListLowStock(c *gin.Context) {
	results, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, results)
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case model.ErrBookNotFound:
			response.NotFound(c, err.Error())
		case model.ErrDuplicateISBN:
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case model.ErrBookNotFound:
			response.NotFound(c, err.Error())
		case model.ErrBookReferenced:
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
