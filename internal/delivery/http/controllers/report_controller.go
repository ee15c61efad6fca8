package controllers

import (
	"log/slog"
	"net/http"

	h "gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/domain"
)

type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
}

func NewReportController(logger *slog.Logger, svc domain.ReportService) *ReportController {
	return &ReportController{
		Logger:  logger,
		Service: svc,
	}
}

// SurveyReportSuccessResponse is the success envelope for GET /reports/survey.
type SurveyReportSuccessResponse struct {
	Data  *domain.SurveyReport `json:"data"`
	Error *h.APIError          `json:"error"`
}

// Survey godoc
// @Summary Survey report
// @Description Answer distribution per question across every configured survey source. Unreachable sources are skipped.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SurveyReportSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/survey [get]
func (c *ReportController) Survey(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.SurveyReport(r.Context())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, report)
}
