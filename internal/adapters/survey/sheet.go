package survey

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gymbooking/internal/domain"
)

const maxSheetBytes = 10 << 20

type sheetSource struct {
	client   *http.Client
	url      string
	maxBytes int64
}

// NewSheetSource fetches a spreadsheet published as CSV from sheetURL.
func NewSheetSource(client *http.Client, sheetURL string) domain.SurveySource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &sheetSource{client: client, url: sheetURL, maxBytes: maxSheetBytes}
}

func (s *sheetSource) Name() string {
	if u, err := url.Parse(s.url); err == nil && u.Host != "" {
		return "sheet:" + u.Host
	}
	return "sheet"
}

func (s *sheetSource) Fetch(ctx context.Context) (*domain.SurveyTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch survey sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("survey sheet returned status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read survey sheet: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("survey sheet exceeds %d bytes", s.maxBytes)
	}
	return decodeTable(bytes.NewReader(body), FormatCSV)
}
