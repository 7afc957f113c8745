// Package table converts loosely-typed upstream score tables into typed
// miner records and infers which columns are evaluation environments.
package table

import (
	"math"
	"strconv"

	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// Well-known meta column names. Lookups are by exact name, matching the
// upstream serverless endpoints' column labels.
const (
	colUID   = "UID"
	colModel = "Model"
	colRev   = "Rev"
	colPts   = "Pts"
	colWgt   = "Wgt"
)

// Normalize converts a table payload into miner records, one per row.
// Malformed cells degrade to Absent; a malformed row never aborts the
// table. Every miner gets an Env entry for every name in envs.
func Normalize(payload model.TablePayload, envs []string) []model.Miner {
	idx := columnIndex(payload.Columns)

	miners := make([]model.Miner, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		m := model.Miner{
			UID:    parseUID(cellAt(row, idx, colUID)),
			Model:  cellString(cellAt(row, idx, colModel)),
			Rev:    cellString(cellAt(row, idx, colRev)),
			Pts:    model.ParseCell(cellAt(row, idx, colPts)),
			Weight: model.ParseCell(cellAt(row, idx, colWgt)),
			Env:    make(map[string]model.Score, len(envs)),
		}
		for _, env := range envs {
			m.Env[env] = model.ParseCell(cellAt(row, idx, env))
		}
		m.ID = model.MinerID(m.UID, m.Model)
		miners = append(miners, m)
	}
	return miners
}

// columnIndex maps column name to position. Duplicate names keep the
// first occurrence, mirroring positional lookup in the upstream payload.
func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return idx
}

// cellAt returns the cell for a named column, nil when the column is
// absent or the row is short.
func cellAt(row []any, idx map[string]int, column string) any {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// parseUID extracts an integer uid; non-numeric input means unset.
func parseUID(cell any) *int {
	s := model.ParseCell(cell)
	v, ok := s.Value()
	if !ok {
		return nil
	}
	u := int(math.Trunc(v))
	return &u
}

// cellString renders a cell as a display string. Labels occasionally
// arrive as numbers in malformed payloads; those are formatted rather
// than dropped.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		if str, ok := cell.(interface{ String() string }); ok {
			return str.String()
		}
		return ""
	}
}
