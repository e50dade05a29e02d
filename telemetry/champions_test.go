package telemetry

import (
	"encoding/json"
	"testing"
)

func TestChampionsOrdering(t *testing.T) {
	cs := NewChampions(3)

	for gen, fitness := range []float64{5, 12, 3, 8} {
		cs.Consider(Champion{Generation: gen + 1, Fitness: fitness})
	}

	entries := cs.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 champions, got %d", len(entries))
	}

	want := []float64{12, 8, 5}
	for i, w := range want {
		if entries[i].Fitness != w {
			t.Errorf("entry %d fitness = %v, want %v", i, entries[i].Fitness, w)
		}
	}

	best, ok := cs.Best()
	if !ok || best.Generation != 2 {
		t.Errorf("best = %+v, want generation 2", best)
	}
}

func TestChampionsRejectsWeak(t *testing.T) {
	cs := NewChampions(2)
	cs.Consider(Champion{Fitness: 10})
	cs.Consider(Champion{Fitness: 9})

	if cs.Consider(Champion{Fitness: 1}) {
		t.Error("weaker champion should be rejected when full")
	}
	if !cs.Consider(Champion{Fitness: 9.5}) {
		t.Error("stronger champion should be kept")
	}
}

func TestChampionsEmpty(t *testing.T) {
	cs := NewChampions(0)

	if _, ok := cs.Best(); ok {
		t.Error("empty list should have no best")
	}
}

func TestChampionsMarshalJSON(t *testing.T) {
	cs := NewChampions(2)
	cs.Consider(Champion{Generation: 4, GenomeID: 17, Fitness: 42.5, Score: 7})

	data, err := cs.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var decoded []Champion
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].GenomeID != 17 || decoded[0].Score != 7 {
		t.Errorf("unexpected decoded champions: %+v", decoded)
	}
}
