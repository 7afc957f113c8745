// Package report projects dominance winners into the shapes the read API
// serves: a sorted, truncated record list with per-size overflow buckets,
// a stable color assignment, and a CSV export.
package report

import (
	"fmt"
	"sort"

	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// Metric selects the scalar attributed to each subset winner.
type Metric string

// Selectable bar metrics.
const (
	MetricPts    Metric = "pts"
	MetricWeight Metric = "weight"
	MetricSum    Metric = "sum"
)

// DefaultTopN caps how many subsets a summary shows before folding the
// rest into per-size overflow buckets.
const DefaultTopN = 24

// ParseMetric validates a metric name; the empty string selects the
// default.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "":
		return MetricSum, nil
	case MetricPts, MetricWeight, MetricSum:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// Record is one subset-winner row as served to consumers.
type Record struct {
	Mask         int         `json:"mask"`
	Size         int         `json:"size"`
	EnvList      []string    `json:"envList"`
	WinnerID     string      `json:"winnerId"`
	WinnerLabel  string      `json:"winnerLabel"`
	WinnerUID    *int        `json:"winnerUid"`
	WinnerWeight model.Score `json:"winnerWeight"`
	WinnerPts    model.Score `json:"winnerPts"`
	Sum          model.Score `json:"sum"`
	Value        float64     `json:"value"`
	Edges        int         `json:"edges"`
	Decided      string      `json:"decided"`
	Color        string      `json:"color"`
}

// OtherBucket aggregates the subsets of one size that fell outside the
// display cap.
type OtherBucket struct {
	Size  int     `json:"size"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Summary is the full aggregated view for one metric and cap.
type Summary struct {
	Metric  Metric            `json:"metric"`
	TopN    int               `json:"topN"`
	Records []Record          `json:"records"`
	Other   []OtherBucket     `json:"other"`
	Colors  map[string]string `json:"colors"`
}

// metricValue resolves the winner's scalar for the chosen metric.
// Absent values contribute zero to bars and buckets.
func metricValue(w dominance.Winner, metric Metric) float64 {
	var s model.Score
	switch metric {
	case MetricPts:
		s = w.Miner.Pts
	case MetricWeight:
		s = w.Miner.Weight
	default:
		s = w.Sum
	}
	v, ok := s.Value()
	if !ok {
		return 0
	}
	return v
}

// Build sorts the winner records, assigns colors over the full sorted
// list, then truncates to topN and folds the remainder into per-size
// buckets. topN <= 0 selects DefaultTopN.
func Build(winners []dominance.Winner, metric Metric, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	records := make([]Record, 0, len(winners))
	for _, w := range winners {
		records = append(records, Record{
			Mask:         w.Mask,
			Size:         w.Size,
			EnvList:      w.EnvList,
			WinnerID:     w.Miner.ID,
			WinnerLabel:  w.Miner.Model,
			WinnerUID:    w.Miner.UID,
			WinnerWeight: w.Miner.Weight,
			WinnerPts:    w.Miner.Pts,
			Sum:          w.Sum,
			Value:        metricValue(w, metric),
			Edges:        w.Edges,
			Decided:      string(w.Decided),
		})
	}

	// Ascending size, descending metric, ascending winner label; the last
	// key matches the engine's final tie-break so the two orderings never
	// disagree.
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return lessFold(a.WinnerLabel, b.WinnerLabel)
	})

	// Colors are assigned in first-seen order over the FULL sorted list so
	// truncation never reshuffles a winner's color.
	colors := assignColors(records)
	for i := range records {
		records[i].Color = colors[records[i].WinnerID]
	}

	if len(records) <= topN {
		return Summary{Metric: metric, TopN: topN, Records: records, Colors: colors}
	}

	kept := records[:topN]
	folded := make(map[int]*OtherBucket)
	order := make([]int, 0, 4)
	for _, r := range records[topN:] {
		b, ok := folded[r.Size]
		if !ok {
			b = &OtherBucket{Size: r.Size}
			folded[r.Size] = b
			order = append(order, r.Size)
		}
		b.Value += r.Value
		b.Count++
	}

	sort.Ints(order)
	other := make([]OtherBucket, 0, len(order))
	for _, size := range order {
		if b := folded[size]; b.Value > 0 {
			other = append(other, *b)
		}
	}

	return Summary{Metric: metric, TopN: topN, Records: kept, Other: other, Colors: colors}
}
