package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hexalib-backend/internal/domains/user/model"
	"hexalib-backend/internal/domains/user/service"
	"hexalib-backend/internal/shared/response"
)

type UserHandler struct {
	service service.Service
}

func NewUserHandler(service service.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case model.ErrInvalidCredentials:
			response.Unauthorized(c, err.Error())
		case model.ErrUserInactive:
			response.Forbidden(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Create handles POST /users (admin only)
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if err == model.ErrDuplicateEmail {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List handles GET /users (admin only)
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Deactivate handles POST /users/:id/deactivate (admin only)
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		if err == model.ErrUserNotFound {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
