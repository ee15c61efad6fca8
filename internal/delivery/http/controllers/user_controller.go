package controllers

import (
	"log/slog"
	"net/http"

	h "gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// UpdateMeRequest is the request body for PATCH /users/me.
type UpdateMeRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ProfileSuccessResponse is the success envelope for the /users/me endpoints.
type ProfileSuccessResponse struct {
	Data  *domain.Profile `json:"data"`
	Error *h.APIError     `json:"error"`
}

// GetMe godoc
// @Summary Current user
// @Description Returns the authenticated user and their roles.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Rename current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.UpdateMeRequest true "New display name"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateMeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}
