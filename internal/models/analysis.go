package models

// DealAnalysis is the prose narrative produced for a scenario. The narrative
// layer consumes engine output read-only and never alters qualification.
type DealAnalysis struct {
	NarrativeSummary     string   `json:"narrative_summary"`
	WhatsWorking         []string `json:"whats_working"`
	RedFlags             []string `json:"red_flags"`
	DeepDiveAreas        []string `json:"deep_dive_areas"`
	ImprovementChecklist []string `json:"improvement_checklist"`
	Sources              []string `json:"sources,omitempty"`
}
