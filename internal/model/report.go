package model

// AIKpiReport summarizes how well suggestions are performing.
type AIKpiReport struct {
	SourceBreakdown   []SourceKPI         `json:"sourceBreakdown"`
	CategoryPrecision []CategoryPrecision `json:"categoryPrecision"`
	Total             int64               `json:"total"`
	Feedback          int64               `json:"feedback"`
	AcceptanceRate    float64             `json:"acceptanceRate"`
	OverrideRate      float64             `json:"overrideRate"`
	GPTFallbackRate   float64             `json:"gptFallbackRate"`
}

// SourceKPI is the share of all suggestions produced by one source.
type SourceKPI struct {
	Source string  `json:"source"`
	Count  int64   `json:"count"`
	Share  float64 `json:"share"`
}

// CategoryPrecision measures how often validated suggestions for a category
// were accepted without correction.
type CategoryPrecision struct {
	Category  string  `json:"category"`
	Validated int64   `json:"validated"`
	Accepted  int64   `json:"accepted"`
	Precision float64 `json:"precision"`
}

// TrainingData is a JSONL export of validated suggestions.
type TrainingData struct {
	Format string   `json:"format"`
	Note   string   `json:"note"`
	Lines  []string `json:"lines"`
	Count  int      `json:"count"`
}
