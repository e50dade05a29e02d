package telemetry

import (
	"encoding/json"
	"sort"
)

// Champion is the best organism of one generation.
type Champion struct {
	Generation int     `json:"generation"`
	GenomeID   int     `json:"genome_id"`
	SpeciesID  int     `json:"species_id"`
	Fitness    float64 `json:"fitness"`
	Score      int     `json:"score"`
	Nodes      int     `json:"nodes"`
	Links      int     `json:"links"`
}

// Champions keeps the fittest generation champions, best first.
type Champions struct {
	entries []Champion
	maxSize int
}

// NewChampions creates a champion list holding at most maxSize entries.
func NewChampions(maxSize int) *Champions {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Champions{
		entries: make([]Champion, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider inserts c if it ranks among the fittest. Returns true if it was kept.
func (cs *Champions) Consider(c Champion) bool {
	idx := sort.Search(len(cs.entries), func(i int) bool {
		return cs.entries[i].Fitness < c.Fitness
	})
	if idx >= cs.maxSize {
		return false
	}

	cs.entries = append(cs.entries, Champion{})
	copy(cs.entries[idx+1:], cs.entries[idx:])
	cs.entries[idx] = c

	if len(cs.entries) > cs.maxSize {
		cs.entries = cs.entries[:cs.maxSize]
	}
	return true
}

// Entries returns the champions, best first.
func (cs *Champions) Entries() []Champion {
	return cs.entries
}

// Best returns the fittest champion.
func (cs *Champions) Best() (Champion, bool) {
	if len(cs.entries) == 0 {
		return Champion{}, false
	}
	return cs.entries[0], true
}

// MarshalJSON implements json.Marshaler.
func (cs *Champions) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(cs.entries, "", "  ")
}
