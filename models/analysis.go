package models

// Analysis is the structured summary extracted from a medical report.
// Every field is free text; the model is instructed to use "N/A" for
// missing reference ranges, so no numeric typing is enforced.
type Analysis struct {
	Summary       string   `json:"summary"`
	RiskAreas     []string `json:"risk_areas"`
	ModerateAreas []string `json:"moderate_areas"`
	HealthyAreas  []string `json:"healthy_areas"`
	AllMetrics    []Metric `json:"all_metrics"`
}

// Metric is a single test result found in the report.
type Metric struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	NormalRange string `json:"normal_range"`
}
