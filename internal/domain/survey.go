package domain

import "context"

// SurveyTable is a raw tabular survey export: one header row, one row per response.
type SurveyTable struct {
	Headers []string
	Rows    [][]string
}

// SurveySource fetches survey responses from one origin (a local file or a shared sheet).
type SurveySource interface {
	Name() string
	Fetch(ctx context.Context) (*SurveyTable, error)
}

// QuestionSummary is the answer distribution of a single survey question.
// swagger:model QuestionSummary
type QuestionSummary struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Labels      []string  `json:"labels"`
	Values      []int     `json:"values"`
	Percentages []float64 `json:"percentages"`
	Total       int       `json:"total"`
}

// SurveyReport summarizes every question across all reachable sources.
// swagger:model SurveyReport
type SurveyReport struct {
	Responses int               `json:"responses"`
	Sources   []string          `json:"sources"`
	Questions []QuestionSummary `json:"questions"`
}

// ReportService builds reports over survey responses.
type ReportService interface {
	SurveyReport(ctx context.Context) (*SurveyReport, error)
}
