package game

// Metadata is the open key-value bag attached to a game. The engine
// consults starting_score and starting_stats at state initialization;
// everything else (stat_names, risk_legend, ...) passes through to
// renderers untouched.
type Metadata map[string]any

// StartingScore returns metadata["starting_score"], defaulting to 0.
// JSON decoding yields float64 for numbers, so both int and float64
// are accepted.
func (m Metadata) StartingScore() int {
	return toInt(m["starting_score"])
}

// StartingStats returns a copy of metadata["starting_stats"],
// defaulting to an empty map. The copy keeps callers from mutating
// the game definition through the returned map.
func (m Metadata) StartingStats() map[string]int {
	stats := make(map[string]int)
	raw, ok := m["starting_stats"].(map[string]any)
	if !ok {
		// May already be typed if built in-process rather than decoded.
		if typed, ok := m["starting_stats"].(map[string]int); ok {
			for k, v := range typed {
				stats[k] = v
			}
		}
		return stats
	}
	for k, v := range raw {
		stats[k] = toInt(v)
	}
	return stats
}

// RiskLegend returns metadata["risk_legend"] as a string map for
// rendering, or nil if absent.
func (m Metadata) RiskLegend() map[string]string {
	raw, ok := m["risk_legend"].(map[string]any)
	if !ok {
		return nil
	}
	legend := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			legend[k] = s
		}
	}
	return legend
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
