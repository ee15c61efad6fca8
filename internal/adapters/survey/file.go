package survey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gymbooking/internal/domain"
)

type fileSource struct {
	path string
}

// NewFileSource reads a CSV export, or a JSON array of objects when path ends in .json.
func NewFileSource(path string) domain.SurveySource {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string { return "file:" + filepath.Base(s.path) }

func (s *fileSource) Fetch(ctx context.Context) (*domain.SurveyTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()

	format := FormatCSV
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		format = FormatJSON
	}
	return decodeTable(f, format)
}
