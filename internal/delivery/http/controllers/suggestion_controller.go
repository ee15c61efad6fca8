package controllers

import (
	"log/slog"
	"net/http"

	h "gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/domain"
)

type SuggestionController struct {
	Logger  *slog.Logger
	Service domain.SuggestionService
}

func NewSuggestionController(logger *slog.Logger, svc domain.SuggestionService) *SuggestionController {
	return &SuggestionController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitSuggestionRequest is the request body for POST /suggestions.
type SubmitSuggestionRequest struct {
	Text      string `json:"text" validate:"required,max=2000"`
	Anonymous bool   `json:"anonymous"`
}

// SuggestionListResponse is the data of GET /admin/suggestions.
type SuggestionListResponse struct {
	Items      []*domain.Suggestion `json:"items"`
	Pagination h.PaginationMeta     `json:"pagination"`
}

// Submit godoc
// @Summary Send a suggestion
// @Description Stores free-text feedback. When anonymous is true the author is not recorded.
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SubmitSuggestionRequest true "Suggestion"
// @Success 201 {object} helpers.APIResponse "data contains the stored suggestion"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /suggestions [post]
func (c *SuggestionController) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SubmitSuggestionRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	s, err := c.Service.Submit(r.Context(), userID, req.Text, req.Anonymous)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, s)
}

// List godoc
// @Summary List suggestions
// @Description Newest first, paginated.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/suggestions [get]
func (c *SuggestionController) List(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Suggestion{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, SuggestionListResponse{
		Items:      items,
		Pagination: h.NewPaginationMeta(params, total),
	})
}
