package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"gymbooking/internal/domain"
)

// SurveyQuestion maps a report key to the column headers that may carry its answers.
type SurveyQuestion struct {
	Key     string
	Title   string
	Aliases []string
}

// DefaultSurveyQuestions are the questions of the gym usage survey.
func DefaultSurveyQuestions() []SurveyQuestion {
	return []SurveyQuestion{
		{Key: "frequency", Title: "How often do you train at the gym?", Aliases: []string{"frecuencia", "how often"}},
		{Key: "preferred_block", Title: "Which block do you prefer?", Aliases: []string{"bloque", "horario", "preferred block"}},
		{Key: "crowding", Title: "How crowded is the gym?", Aliases: []string{"aglomeracion", "cantidad de gente", "crowded"}},
		{Key: "satisfaction", Title: "How satisfied are you with the booking system?", Aliases: []string{"satisfaccion", "satisfied"}},
		{Key: "career", Title: "Career", Aliases: []string{"carrera", "career"}},
	}
}

type reportService struct {
	sources   []domain.SurveySource
	questions []SurveyQuestion
	logger    *slog.Logger
}

// NewReportService creates a ReportService over the given sources.
func NewReportService(sources []domain.SurveySource, questions []SurveyQuestion, logger *slog.Logger) domain.ReportService {
	return &reportService{sources: sources, questions: questions, logger: logger}
}

func (s *reportService) SurveyReport(ctx context.Context) (*domain.SurveyReport, error) {
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("%w: no survey sources configured", domain.ErrNotFound)
	}

	var tables []*domain.SurveyTable
	var names []string
	var errs []error
	for _, src := range s.sources {
		table, err := src.Fetch(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "survey source skipped", "source", src.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		tables = append(tables, table)
		names = append(names, src.Name())
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("all survey sources failed: %w", errors.Join(errs...))
	}

	report := &domain.SurveyReport{Sources: names, Questions: []domain.QuestionSummary{}}
	for _, t := range tables {
		report.Responses += len(t.Rows)
	}
	for _, q := range s.questions {
		counts := make(map[string]int)
		matched := false
		for _, t := range tables {
			col := matchColumn(t.Headers, q.Aliases)
			if col < 0 {
				continue
			}
			matched = true
			for _, row := range t.Rows {
				if col >= len(row) {
					continue
				}
				if answer := strings.TrimSpace(row[col]); answer != "" {
					counts[answer]++
				}
			}
		}
		if matched {
			report.Questions = append(report.Questions, summarize(q, counts))
		}
	}
	return report, nil
}

// matchColumn returns the first header containing any alias after folding, or -1.
func matchColumn(headers []string, aliases []string) int {
	for i, h := range headers {
		fh := foldText(h)
		for _, a := range aliases {
			if fa := foldText(a); fa != "" && strings.Contains(fh, fa) {
				return i
			}
		}
	}
	return -1
}

func summarize(q SurveyQuestion, counts map[string]int) domain.QuestionSummary {
	labels := make([]string, 0, len(counts))
	total := 0
	for label, n := range counts {
		labels = append(labels, label)
		total += n
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	sum := domain.QuestionSummary{
		Key:         q.Key,
		Title:       q.Title,
		Labels:      labels,
		Values:      make([]int, len(labels)),
		Percentages: make([]float64, len(labels)),
		Total:       total,
	}
	hundred := decimal.NewFromInt(100)
	for i, label := range labels {
		sum.Values[i] = counts[label]
		if total > 0 {
			pct := decimal.NewFromInt(int64(counts[label])).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(1)
			sum.Percentages[i] = pct.InexactFloat64()
		}
	}
	return sum
}

// foldText lowercases s, strips accents and collapses punctuation and spaces to single spaces.
func foldText(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}
