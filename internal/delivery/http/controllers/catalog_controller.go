package controllers

import (
	"log/slog"
	"net/http"

	h "gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/domain"
)

type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// BlocksSuccessResponse is the success envelope for the block list endpoints.
type BlocksSuccessResponse struct {
	Data  []*domain.TimeBlock `json:"data"`
	Error *h.APIError         `json:"error"`
}

// List godoc
// @Summary List time blocks
// @Description The daily schedule, ordered by start time then name. The same blocks repeat Monday to Friday.
// @Tags blocks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BlocksSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /blocks [get]
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	blocks, err := c.Service.List(r.Context())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if blocks == nil {
		blocks = []*domain.TimeBlock{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, blocks)
}

// Regenerate godoc
// @Summary Regenerate the schedule
// @Description Replaces every time block with the fixed daily layout. All existing reservations are removed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BlocksSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/blocks/regenerate [post]
func (c *CatalogController) Regenerate(w http.ResponseWriter, r *http.Request) {
	blocks, err := c.Service.Regenerate(r.Context())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, blocks)
}
