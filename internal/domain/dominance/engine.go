// Package dominance computes per-subset Pareto winners over miner score
// vectors. For every non-empty subset of the environment set it finds the
// non-dominated candidates and forces a unique winner through a
// deterministic tie-break chain, so winner identity is stable across
// recomputations of the same snapshot.
package dominance

import (
	"math/bits"

	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// TieBreak names the dimension that decided a subset's winner.
type TieBreak string

// Tie-break dimensions, in the order the chain applies them.
const (
	TieBreakPareto TieBreak = "pareto" // single non-dominated candidate
	TieBreakWeight TieBreak = "weight"
	TieBreakPts    TieBreak = "pts"
	TieBreakSum    TieBreak = "sum"
	TieBreakModel  TieBreak = "model"
)

// Winner is the record produced for one qualifying subset.
type Winner struct {
	Mask    int         // bitmask over the ordered environment list
	Size    int         // population count of Mask
	EnvList []string    // member environment names in original order
	Miner   model.Miner // the selected winner
	Sum     model.Score // winner's score sum over exactly the subset
	Edges   int         // candidates the winner dominates on the subset
	Decided TieBreak    // dimension that decided the winner
}

// Compute enumerates every non-empty subset of envs (masks 1..2^N-1) and
// returns one Winner per subset that has at least one candidate. Subsets
// with no candidate produce no record. len(envs) must not exceed 8; the
// caller enforces that via environment inference.
func Compute(envs []string, miners []model.Miner) []Winner {
	n := len(envs)
	if n == 0 || len(miners) == 0 {
		return nil
	}

	winners := make([]Winner, 0, (1<<n)-1)
	for mask := 1; mask < 1<<n; mask++ {
		if w, ok := computeSubset(mask, envs, miners); ok {
			winners = append(winners, w)
		}
	}
	return winners
}

// computeSubset resolves one subset: candidate filter, Pareto frontier,
// tie-break. ok is false when no miner qualifies.
func computeSubset(mask int, envs []string, miners []model.Miner) (Winner, bool) {
	subset := maskEnvs(mask, envs)

	candidates := make([]model.Miner, 0, len(miners))
	for _, m := range miners {
		if qualifies(m, subset) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return Winner{}, false
	}

	frontier := nonDominated(candidates, subset)

	best := frontier[0]
	for _, c := range frontier[1:] {
		if beats(c, best, subset) != "" {
			best = c
		}
	}

	// The reported dimension is the deepest chain level needed to separate
	// the winner from any other frontier member; a frontier of one is a
	// pure Pareto win. Depth, not scan order, keeps this deterministic.
	decided := TieBreakPareto
	for _, c := range frontier {
		if c.ID == best.ID {
			continue
		}
		decided = deeper(decided, beats(best, c, subset))
	}

	return Winner{
		Mask:    mask,
		Size:    popcount(mask),
		EnvList: subset,
		Miner:   best,
		Sum:     SubsetSum(best, subset),
		Edges:   countDominated(best, candidates, subset),
		Decided: decided,
	}, true
}

// qualifies reports whether a miner has at least one defined score on the
// subset. Miners with no data on any subset axis cannot be compared and
// are excluded outright.
func qualifies(m model.Miner, subset []string) bool {
	for _, env := range subset {
		if m.EnvScore(env).Defined() {
			return true
		}
	}
	return false
}

// Dominates reports whether a dominates b on the subset: a is at least as
// good on every axis and strictly better on at least one. Absent scores
// compare as -Inf, so missing data on an axis is always a disadvantage
// there, never an advantage.
func Dominates(a, b model.Miner, subset []string) bool {
	strict := false
	for _, env := range subset {
		cmp := a.EnvScore(env).Cmp(b.EnvScore(env))
		if cmp < 0 {
			return false
		}
		if cmp > 0 {
			strict = true
		}
	}
	return strict
}

// nonDominated filters candidates down to the Pareto frontier.
// O(C²·N) per subset; N ≤ 8 and C is the miner count, small enough to run
// inline on every refresh.
func nonDominated(candidates []model.Miner, subset []string) []model.Miner {
	frontier := make([]model.Miner, 0, len(candidates))
	for i, c := range candidates {
		dominated := false
		for j, other := range candidates {
			if i == j {
				continue
			}
			if Dominates(other, c, subset) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, c)
		}
	}
	return frontier
}

// countDominated counts the candidates the winner strictly dominates on
// the subset (the dominance-edge count reported in exports).
func countDominated(w model.Miner, candidates []model.Miner, subset []string) int {
	edges := 0
	for _, c := range candidates {
		if c.ID == w.ID {
			continue
		}
		if Dominates(w, c, subset) {
			edges++
		}
	}
	return edges
}

// SubsetSum returns the miner's score sum over exactly the subset's
// environments. Any absent score makes the whole sum Absent (-Inf in
// comparisons), disqualifying the miner at this tie-break level.
func SubsetSum(m model.Miner, subset []string) model.Score {
	sum := 0.0
	for _, env := range subset {
		v, ok := m.EnvScore(env).Value()
		if !ok {
			return model.Absent()
		}
		sum += v
	}
	return model.Parsed(sum)
}

// beats compares two non-dominated candidates through the tie-break
// chain: highest weight, then highest points, then highest subset score
// sum, then ascending model name (case-insensitive). It returns the
// dimension on which a strictly beats b, or "" when it does not.
func beats(a, b model.Miner, subset []string) TieBreak {
	if cmp := a.Weight.Cmp(b.Weight); cmp != 0 {
		if cmp > 0 {
			return TieBreakWeight
		}
		return ""
	}
	if cmp := a.Pts.Cmp(b.Pts); cmp != 0 {
		if cmp > 0 {
			return TieBreakPts
		}
		return ""
	}
	if cmp := SubsetSum(a, subset).Cmp(SubsetSum(b, subset)); cmp != 0 {
		if cmp > 0 {
			return TieBreakSum
		}
		return ""
	}
	if a.ModelFold() < b.ModelFold() {
		return TieBreakModel
	}
	return ""
}

// chainDepth orders tie-break dimensions by how deep in the chain they
// sit; pareto is depth zero.
var chainDepth = map[TieBreak]int{
	TieBreakPareto: 0,
	TieBreakWeight: 1,
	TieBreakPts:    2,
	TieBreakSum:    3,
	TieBreakModel:  4,
}

// deeper returns whichever dimension sits deeper in the chain. The empty
// dimension (fully tied pair) does not advance depth.
func deeper(a, b TieBreak) TieBreak {
	if b == "" {
		return a
	}
	if chainDepth[b] > chainDepth[a] {
		return b
	}
	return a
}

// maskEnvs expands a bitmask into member names in original order.
func maskEnvs(mask int, envs []string) []string {
	subset := make([]string, 0, popcount(mask))
	for i, env := range envs {
		if mask&(1<<i) != 0 {
			subset = append(subset, env)
		}
	}
	return subset
}

func popcount(mask int) int {
	return bits.OnesCount(uint(mask))
}
