package model

import (
	"fmt"
	"strings"
)

// Miner is one scored competitor from a table snapshot.
// Env holds an entry for every inferred environment; a miner that did not
// run an environment carries Absent there.
type Miner struct {
	ID     string           `json:"id"`
	UID    *int             `json:"uid"`
	Model  string           `json:"model"`
	Rev    string           `json:"rev,omitempty"`
	Weight Score            `json:"weight"`
	Pts    Score            `json:"pts"`
	Env    map[string]Score `json:"env"`
}

// MinerID builds the identity key used for grouping and coloring.
// It is stable for a (uid, model) pair within one snapshot.
func MinerID(uid *int, modelName string) string {
	u := "?"
	if uid != nil {
		u = fmt.Sprintf("%d", *uid)
	}
	return u + ":" + modelName
}

// ModelFold is the case-insensitive form of the model name used for
// tie-breaks and sorting.
func (m Miner) ModelFold() string { return strings.ToLower(m.Model) }

// EnvScore returns the miner's score for an environment, Absent when the
// environment is unknown.
func (m Miner) EnvScore(env string) Score {
	if m.Env == nil {
		return Absent()
	}
	return m.Env[env]
}

// TablePayload is the upstream wire shape: rows positionally aligned to
// columns, cells loosely typed.
type TablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
