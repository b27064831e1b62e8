package game

import (
	"encoding/json"
	"testing"
)

func TestMetadataDefaults(t *testing.T) {
	tests := []struct {
		name      string
		meta      Metadata
		wantScore int
		wantStats map[string]int
	}{
		{
			name:      "nil metadata",
			meta:      nil,
			wantScore: 0,
			wantStats: map[string]int{},
		},
		{
			name:      "empty metadata",
			meta:      Metadata{},
			wantScore: 0,
			wantStats: map[string]int{},
		},
		{
			name: "typed values built in-process",
			meta: Metadata{
				"starting_score": 7,
				"starting_stats": map[string]int{"Humor": 3},
			},
			wantScore: 7,
			wantStats: map[string]int{"Humor": 3},
		},
		{
			name: "json-decoded values",
			meta: Metadata{
				"starting_score": float64(12),
				"starting_stats": map[string]any{"Zen": float64(1), "Peace": float64(-2)},
			},
			wantScore: 12,
			wantStats: map[string]int{"Zen": 1, "Peace": -2},
		},
		{
			name: "wrong types fall back to defaults",
			meta: Metadata{
				"starting_score": "lots",
				"starting_stats": []any{"Courage"},
			},
			wantScore: 0,
			wantStats: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.StartingScore(); got != tt.wantScore {
				t.Errorf("StartingScore() = %d, want %d", got, tt.wantScore)
			}
			got := tt.meta.StartingStats()
			if len(got) != len(tt.wantStats) {
				t.Fatalf("StartingStats() = %v, want %v", got, tt.wantStats)
			}
			for k, v := range tt.wantStats {
				if got[k] != v {
					t.Errorf("StartingStats()[%s] = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func TestMetadataFromJSON(t *testing.T) {
	raw := `{
		"starting_score": 5,
		"starting_stats": {"Spark": 1},
		"stat_names": ["Spark", "Curiosity", "Chaos"],
		"risk_legend": {"safe": "low risk", "risky": "swingy", "chaotic": "wild"}
	}`

	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if meta.StartingScore() != 5 {
		t.Errorf("StartingScore() = %d, want 5", meta.StartingScore())
	}
	if stats := meta.StartingStats(); stats["Spark"] != 1 {
		t.Errorf("StartingStats() = %v", stats)
	}
	legend := meta.RiskLegend()
	if legend["chaotic"] != "wild" {
		t.Errorf("RiskLegend() = %v", legend)
	}

	// Display-only fields pass through untouched.
	if _, ok := meta["stat_names"]; !ok {
		t.Error("stat_names should survive in the bag")
	}
}
