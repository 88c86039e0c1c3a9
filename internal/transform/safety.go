package transform

import "github.com/codebuildervaibhav/audio-intelligence/internal/types"

// ChartData is a horizontal bar chart of content-safety severities
type ChartData struct {
	Labels     []string  `json:"labels"`
	Severities []float64 `json:"severities"`
	AxisMin    float64   `json:"axis_min"`
	AxisMax    float64   `json:"axis_max"`
}

// SafetyChart converts label severities into chart series, keeping input order
func SafetyChart(summary types.Scores) (*ChartData, error) {
	chart := &ChartData{
		Labels:     make([]string, 0, len(summary)),
		Severities: make([]float64, 0, len(summary)),
		AxisMin:    0,
		AxisMax:    1,
	}
	for _, s := range summary {
		if s.Value < 0 || s.Value > 1 {
			return nil, transformErr("content safety", "severity of %q is %v, want a value in [0,1]", s.Label, s.Value)
		}
		chart.Labels = append(chart.Labels, TitleCase(s.Label))
		chart.Severities = append(chart.Severities, s.Value)
	}
	return chart, nil
}
