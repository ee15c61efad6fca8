package controllers

import (
	"log/slog"
	"net/http"

	h "gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/domain"
)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// BookRequest is the request body for POST /reservations.
type BookRequest struct {
	BlockID string `json:"block_id" validate:"required" example:"6f1c2f4e-2a8b-4a59-9a39-0e4c1f3d2b11"`
	Date    string `json:"date" validate:"required" example:"2024-06-10"`
}

// ReservationSuccessResponse is the success envelope for POST /reservations.
type ReservationSuccessResponse struct {
	Data  *domain.Reservation `json:"data"`
	Error *h.APIError         `json:"error"`
}

// WeekGridSuccessResponse is the success envelope for GET /reservations/week.
type WeekGridSuccessResponse struct {
	Data  *domain.WeekGrid `json:"data"`
	Error *h.APIError      `json:"error"`
}

// MyReservationsSuccessResponse is the success envelope for GET /reservations/me.
type MyReservationsSuccessResponse struct {
	Data  []*domain.ReservationWithBlock `json:"data"`
	Error *h.APIError                    `json:"error"`
}

// Book godoc
// @Summary Book a seat
// @Description Reserves one seat of a time block on a date for the current user. The block must not have started yet.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.BookRequest true "Block and date (YYYY-MM-DD)"
// @Success 201 {object} controllers.ReservationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: duplicate_booking or block_full"
// @Failure 422 {object} helpers.APIResponse "error.code: past_block"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reservations [post]
func (c *BookingController) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req BookRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	res, err := c.Service.Book(r.Context(), userID, req.BlockID, req.Date)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, res)
}

// Cancel godoc
// @Summary Cancel my reservation
// @Description Deletes a reservation owned by the current user. Reservations of other users are reported as not found.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID (UUID)"
// @Success 204 "Cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reservations/{id} [delete]
func (c *BookingController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.Cancel(r.Context(), userID, id); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminCancel godoc
// @Summary Cancel any reservation
// @Description Deletes a reservation regardless of its owner.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID (UUID)"
// @Success 204 "Cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/reservations/{id} [delete]
func (c *BookingController) AdminCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.AdminCancel(r.Context(), id); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Week godoc
// @Summary Weekly availability grid
// @Description Monday to Friday grid of every block for the week containing date (today when omitted), with free seats and the caller's own reservations.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param date query string false "Any day of the week (YYYY-MM-DD)"
// @Success 200 {object} controllers.WeekGridSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reservations/week [get]
func (c *BookingController) Week(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	grid, err := c.Service.WeekGrid(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, grid)
}

// ListMine godoc
// @Summary My upcoming reservations
// @Description Reservations of the current user from today on, ordered by date and block start.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyReservationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reservations/me [get]
func (c *BookingController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.ReservationWithBlock{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}
