package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// GraphStat is one row of the stats and graphs listings.
type GraphStat struct {
	Graph      string `json:"graph"`
	Statements int    `json:"statements"`
}

// Stats is the stats report.
type Stats struct {
	Graphs []GraphStat `json:"graphs"`
	Total  int         `json:"total"`
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStatsText writes a report as tab separated lines.
func writeStatsText(w io.Writer, s Stats) error {
	for _, g := range s.Graphs {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", g.Graph, g.Statements); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total\t%d\n", s.Total)
	return err
}
