package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"users-api/internal/http-api/dto"
	"users-api/internal/http-api/middleware"
	"users-api/internal/http-api/service"
	"users-api/internal/http-api/validation"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal server error"

type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers user-related routes
func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.GetByID)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

// List returns every user ordered by id
// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(operationContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Success: true, Data: users, Count: len(users)})
}

// GetByID retrieves a user by ID
// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(operationContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: user})
}

// Create creates a new user
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err.Error()))
		return
	}

	user, err := h.userService.Create(operationContext(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse{Success: true, Data: user})
}

// Update applies a partial update
// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err.Error()))
		return
	}

	user, err := h.userService.Update(operationContext(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: user})
}

// Delete removes a user permanently
// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(operationContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "user deleted successfully"})
}

// writeError maps service errors to status codes. Unknown errors are store
// faults: they are logged and the caller only sees an opaque message.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(verr.Message, verr.Error()))
	case errors.Is(err, service.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), ""))
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error(), ""))
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(err.Error(), ""))
	default:
		h.logger.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.RequestIDKey),
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(internalErrorMessage, ""))
	}
}

// parseUserID writes a 404 when :id is not a positive integer, since no row
// can have such a key.
func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(service.ErrUserNotFound.Error(), ""))
		return 0, false
	}
	return id, true
}

// operationContext keeps request values but drops client cancellation so a
// started operation runs to completion; store calls carry their own timeout.
func operationContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
