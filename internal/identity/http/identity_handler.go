// Package http provides HTTP handlers for identity registry operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/loans/internal/httputil"
	"github.com/allisson/loans/internal/identity/http/dto"
	identityUseCase "github.com/allisson/loans/internal/identity/usecase"
	customValidation "github.com/allisson/loans/internal/validation"
)

// IdentityHandler handles HTTP requests for identity management operations.
type IdentityHandler struct {
	identityUseCase identityUseCase.IdentityUseCase
	logger          *slog.Logger
}

// NewIdentityHandler creates a new identity handler with required dependencies.
func NewIdentityHandler(identityUseCase identityUseCase.IdentityUseCase, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		identityUseCase: identityUseCase,
		logger:          logger,
	}
}

// CreateHandler registers a new identity.
// POST /v1/identities - Returns 201 Created with the stored identity.
func (h *IdentityHandler) CreateHandler(c *gin.Context) {
	var req dto.IdentityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identity, err := h.identityUseCase.Create(c.Request.Context(), req.ToCreateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIdentityToResponse(identity))
}

// GetHandler retrieves an identity by ID.
// GET /v1/identities/:id
func (h *IdentityHandler) GetHandler(c *gin.Context) {
	identityID, ok := h.parseID(c)
	if !ok {
		return
	}

	identity, err := h.identityUseCase.Get(c.Request.Context(), identityID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// UpdateHandler overwrites the mutable fields of an identity.
// PUT /v1/identities/:id - Returns 200 OK with the updated identity.
func (h *IdentityHandler) UpdateHandler(c *gin.Context) {
	identityID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.IdentityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identity, err := h.identityUseCase.Update(c.Request.Context(), identityID, req.ToUpdateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// ListHandler lists identities matching the optional email, national_id and role query filters.
// GET /v1/identities
func (h *IdentityHandler) ListHandler(c *gin.Context) {
	query := dto.ListIdentitiesQuery{
		Email:      optionalQuery(c, "email"),
		NationalID: optionalQuery(c, "national_id"),
		Role:       optionalQuery(c, "role"),
	}

	filter, err := query.ToFilter()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identities, err := h.identityUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentitiesToListResponse(identities))
}

// DeleteHandler removes an identity.
// DELETE /v1/identities/:id - Returns 204 No Content, or 404 when nothing was deleted.
func (h *IdentityHandler) DeleteHandler(c *gin.Context) {
	identityID, ok := h.parseID(c)
	if !ok {
		return
	}

	deleted, err := h.identityUseCase.Delete(c.Request.Context(), identityID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{
			Error:   "not_found",
			Message: "identity not found",
		})
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *IdentityHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	identityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid identity ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return identityID, true
}

// optionalQuery returns a pointer to the query value, or nil when the key is absent.
func optionalQuery(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok {
		return &value
	}
	return nil
}
