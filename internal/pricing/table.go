// Package pricing implements the deterministic cost estimation engine.
//
// This file defines the technology complexity table. The table is immutable
// configuration injected into the Estimator, so it can be tested and
// versioned independently of the calculation itself.
package pricing

// ComplexityTable maps technology names to cost multipliers per category.
// Technologies absent from the table contribute a neutral 1.0.
type ComplexityTable struct {
	Frontend map[string]float64
	Backend  map[string]float64
	Database map[string]float64
}

// DefaultComplexityTable returns the standard multiplier table.
func DefaultComplexityTable() ComplexityTable {
	return ComplexityTable{
		Frontend: map[string]float64{
			"React":             1.2,
			"Angular":           1.3,
			"Vue":               1.1,
			"Next.js":           1.25,
			"Plain HTML/CSS/JS": 0.8,
		},
		Backend: map[string]float64{
			"Node.js":       1.1,
			"Python":        1.2,
			"Ruby on Rails": 1.15,
			"PHP":           0.9,
			"Java":          1.3,
			".NET":          1.25,
			"Go":            1.2,
		},
		Database: map[string]float64{
			"MongoDB":    1.1,
			"PostgreSQL": 1.15,
			"MySQL":      1.0,
			"Firebase":   0.9,
			"SQL Server": 1.2,
		},
	}
}

// lookup returns the multiplier for a technology, defaulting to 1.0 for
// names not in the table.
func lookup(table map[string]float64, name string) float64 {
	if m, ok := table[name]; ok {
		return m
	}
	return 1.0
}

// mean averages the table multipliers of the given technologies. An empty
// selection is neutral (1.0); upstream validation normally prevents it.
func mean(table map[string]float64, names []string) float64 {
	if len(names) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, name := range names {
		sum += lookup(table, name)
	}
	return sum / float64(len(names))
}
