package testtable

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Default environment columns when none are configured. These mirror the
// competition task names the analytics service infers.
var DefaultEnvironments = []string{"SAT", "ABD", "DED", "ELR", "HVM"}

// Model families the generator draws labels from.
var modelFamilies = []string{
	"qwen3", "llama3", "mistral", "gemma2", "phi4", "deepseek",
}

var modelSizes = []string{"1b", "3b", "7b", "8b", "14b", "32b"}

// miner is the generator's internal row state. Scores are kept as plain
// floats; decoration happens at render time so a mutation never flips a
// cell between present and absent.
type miner struct {
	uid     int
	model   string
	rev     string
	profile int
	pts     float64
	weight  float64
	scores  []float64 // indexed by environment, NaN marks a gap
	stars   []bool
	ratios  []bool
}

// generator produces and mutates a synthetic miner table.
type generator struct {
	rng    *rand.Rand
	envs   []string
	miners []*miner
}

func newGenerator(cfg *Config) *generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &generator{
		rng:  rand.New(rand.NewSource(seed)),
		envs: cfg.Environments,
	}
	if len(g.envs) == 0 {
		g.envs = DefaultEnvironments
	}
	g.miners = make([]*miner, cfg.Miners)
	for i := range g.miners {
		g.miners[i] = g.newMiner(i)
	}
	return g
}

func (g *generator) newMiner(index int) *miner {
	profile := g.rng.Intn(profileCount)
	m := &miner{
		uid:     index + 1,
		model:   g.modelName(),
		rev:     uuid.New().String()[:8],
		profile: profile,
		weight:  g.rng.Float64(),
		scores:  make([]float64, len(g.envs)),
		stars:   make([]bool, len(g.envs)),
		ratios:  make([]bool, len(g.envs)),
	}
	for i := range g.envs {
		m.scores[i] = g.profileScore(profile)
		roll := g.rng.Intn(decorationDivisor)
		switch {
		case profile == caseSparsePerformer && roll < 3*absentOdds:
			m.scores[i] = -1 // rendered as a gap
		case roll < absentOdds:
			m.scores[i] = -1
		case roll < absentOdds+starOdds:
			m.stars[i] = true
		case roll < absentOdds+starOdds+ratioOdds:
			m.ratios[i] = true
		}
	}
	m.pts = g.sumPresent(m) * (0.8 + 0.4*g.rng.Float64())
	return m
}

func (g *generator) modelName() string {
	family := modelFamilies[g.rng.Intn(len(modelFamilies))]
	size := modelSizes[g.rng.Intn(len(modelSizes))]
	return family + ":" + size + "-" + uuid.New().String()[:4]
}

func (g *generator) profileScore(profile int) float64 {
	switch profile {
	case caseElitePerformer:
		return eliteMin + g.rng.Float64()*eliteRange
	case caseStrongPerformer:
		return strongMin + g.rng.Float64()*strongRange
	case caseAveragePerformer:
		return avgMin + g.rng.Float64()*avgRange
	default:
		return weakMin + g.rng.Float64()*weakRange
	}
}

func (g *generator) sumPresent(m *miner) float64 {
	total := 0.0
	for _, s := range m.scores {
		if s >= 0 {
			total += s
		}
	}
	return total
}

// mutate drifts each present score a little so successive payloads carry
// distinct fingerprints and the dominance frontier shifts over time.
func (g *generator) mutate() {
	for _, m := range g.miners {
		for i, s := range m.scores {
			if s < 0 {
				continue
			}
			drift := (g.rng.Float64() - 0.5) * 4
			next := s + drift
			if next < 0 {
				next = 0
			}
			if next > 100 {
				next = 100
			}
			m.scores[i] = next
		}
		m.pts = g.sumPresent(m) * (0.8 + 0.4*g.rng.Float64())
		m.weight += (g.rng.Float64() - 0.5) * 0.05
		if m.weight < 0 {
			m.weight = 0
		}
	}
}

// payload renders the current table in the columns-plus-rows wire shape.
func (g *generator) payload() (columns []string, rows [][]any) {
	columns = append([]string{"UID", "Model", "Rev", "Pts", "Wgt"}, g.envs...)
	rows = make([][]any, 0, len(g.miners))
	for _, m := range g.miners {
		row := []any{
			m.uid,
			m.model,
			m.rev,
			round1(m.pts),
			round3(m.weight),
		}
		for i := range g.envs {
			row = append(row, g.renderCell(m, i))
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// renderCell formats one score cell, applying the miner's sticky
// decorations: "81.9*" for starred cells, "64/100" for ratio cells, an
// empty string for gaps, a bare number otherwise.
func (g *generator) renderCell(m *miner, env int) any {
	s := m.scores[env]
	switch {
	case s < 0:
		return ""
	case m.stars[env]:
		return strconv.FormatFloat(round1(s), 'f', -1, 64) + "*"
	case m.ratios[env]:
		return fmt.Sprintf("%s/100", strconv.FormatFloat(round1(s), 'f', -1, 64))
	default:
		return round1(s)
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
