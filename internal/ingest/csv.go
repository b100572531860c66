package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"insightgen/internal/dataset"
)

// candidateSeparators are tried in order until one yields more than a single
// column. Real-world exports disagree on the separator, so parsing is
// retried rather than failed.
var candidateSeparators = []rune{',', ';', '\t'}

// LoadCSV parses CSV content with separator detection and bad-line
// tolerance: rows whose field count disagrees with the header are skipped,
// not fatal.
func LoadCSV(r io.Reader) (*dataset.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var lastErr error
	for _, sep := range candidateSeparators {
		header, rows, err := parseCSV(raw, sep)
		if err != nil {
			lastErr = err
			continue
		}
		if len(header) > 1 || sep == candidateSeparators[len(candidateSeparators)-1] {
			return buildClean(header, rows)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("parse csv: %w", lastErr)
	}
	return nil, fmt.Errorf("parse csv: no usable separator")
}

func parseCSV(raw []byte, sep rune) ([]string, [][]string, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sep
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(rec) != len(header) {
			skipped++
			continue
		}
		rows = append(rows, append([]string(nil), rec...))
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Skipped malformed CSV lines")
	}
	return header, rows, nil
}
