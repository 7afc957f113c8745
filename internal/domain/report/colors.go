package report

import "strings"

// palette is the fixed color cycle used for winner identities. Matches
// the dashboard's categorical scheme; wraps around past its length.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// assignColors maps each distinct winner to a palette color in first-seen
// order over the already-sorted record list.
func assignColors(records []Record) map[string]string {
	colors := make(map[string]string)
	for _, r := range records {
		if _, ok := colors[r.WinnerID]; !ok {
			colors[r.WinnerID] = palette[len(colors)%len(palette)]
		}
	}
	return colors
}

// lessFold is the case-insensitive string order used wherever winner
// labels break ties.
func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
