package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/probelab/wavescout/internal/survey"
)

// ExportJSON writes one pass's results as an indented JSON array. This
// is the hand-off format for external heatmap and trend tooling.
func ExportJSON(w io.Writer, results []survey.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
