package domain

// Dashboard is the simplified-interpretation payload shown after login.
// The values are mock data until real report ingestion exists.
type Dashboard struct {
	Stats   map[string]Stat           `json:"stats"`
	History map[string][]HistoryPoint `json:"history"`
	Reports []Report                  `json:"reports"`
}

// Stat is a single lab metric with its trend against the previous test.
type Stat struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Trend string  `json:"trend"`
}

// HistoryPoint is one historical value of a metric.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Report is an uploaded report entry.
type Report struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}
