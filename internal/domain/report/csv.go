package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// csvHeader is the flattened ledger schema. One row per subset winner,
// pre-truncation, in the summary sort order.
var csvHeader = []string{
	"subset", "size", "metric", "value",
	"winner_uid", "winner_model", "winner_weight", "winner_pts",
	"subset_sum", "dominance_edges", "tie_break",
}

// ExportCSV renders every subset/winner row as RFC4180 CSV (encoding/csv
// handles quoting of fields containing commas or quotes). The export is
// never truncated: consumers get the full ledger regardless of the
// display cap.
func ExportCSV(winners []dominance.Winner, metric Metric) ([]byte, error) {
	summary := Build(winners, metric, len(winners)+1)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range summary.Records {
		row := []string{
			strings.Join(r.EnvList, "+"),
			strconv.Itoa(r.Size),
			string(metric),
			formatFloat(r.Value),
			formatUID(r.WinnerUID),
			r.WinnerLabel,
			formatScore(r.WinnerWeight),
			formatScore(r.WinnerPts),
			formatScore(r.Sum),
			strconv.Itoa(r.Edges),
			r.Decided,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatScore renders Absent as the empty field.
func formatScore(s model.Score) string {
	v, ok := s.Value()
	if !ok {
		return ""
	}
	return formatFloat(v)
}

func formatUID(uid *int) string {
	if uid == nil {
		return ""
	}
	return strconv.Itoa(*uid)
}
