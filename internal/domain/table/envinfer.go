package table

import (
	"strings"
)

// MaxEnvironments bounds subset enumeration to 2^8 = 256 subsets.
const MaxEnvironments = 8

// MinEnvironments is the smallest set the dominance engine accepts.
const MinEnvironments = 2

// preferredTokens is the ordered list of canonical environment and level
// codes. Matching is by normalized-name equality or prefix, so "SAT" picks
// up columns labeled "SAT", "sat", or "SAT (%)".
var preferredTokens = []string{
	"SAT", "ABD", "DED", "ELR", "HVM", "L1", "L2", "L3", "L4",
}

// metaColumns are known non-environment columns excluded by the fallback
// heuristic, keyed by normalized name.
var metaColumns = map[string]struct{}{
	"UID": {}, "ID": {}, "MODEL": {}, "NAME": {}, "REV": {}, "REVISION": {},
	"PTS": {}, "POINTS": {}, "ELIG": {}, "ELIGIBLE": {}, "ELIGIBILITY": {},
	"WGT": {}, "WEIGHT": {}, "RANK": {}, "HOTKEY": {}, "BLOCK": {},
}

// InferEnvironments decides which columns are score environments.
//
// Environment columns are registered dynamically upstream, so the set is
// inferred per payload: first by walking the canonical token list, then,
// when that finds fewer than MinEnvironments, by a shape heuristic over
// the remaining column names (short alphanumeric codes that are not known
// meta columns). The result preserves column preference order, holds no
// duplicates, and is capped at MaxEnvironments.
func InferEnvironments(columns []string) []string {
	envs := make([]string, 0, MaxEnvironments)
	seen := make(map[string]struct{}, MaxEnvironments)

	add := func(name string) {
		if _, dup := seen[name]; dup || len(envs) >= MaxEnvironments {
			return
		}
		seen[name] = struct{}{}
		envs = append(envs, name)
	}

	for _, token := range preferredTokens {
		for _, col := range columns {
			norm := normalizeName(col)
			if norm == token || strings.HasPrefix(norm, token) {
				add(col)
				break
			}
		}
	}

	if len(envs) >= MinEnvironments {
		return envs
	}

	// Unknown or custom environment codes: keep short alphanumeric
	// column names that are not identifiers/metadata.
	for _, col := range columns {
		norm := normalizeName(col)
		if _, meta := metaColumns[norm]; meta {
			continue
		}
		if isEnvShaped(norm) {
			add(col)
		}
	}
	return envs
}

// normalizeName uppercases and strips everything outside [A-Z0-9].
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isEnvShaped reports whether a normalized name looks like an environment
// code: 2 to 6 alphanumeric characters.
func isEnvShaped(norm string) bool {
	return len(norm) >= 2 && len(norm) <= 6
}
