package models

// SearchResult is a single search hit. Keyword hits carry a relevance Score;
// approximate hits carry a Hamming Distance instead.
type SearchResult struct {
	Verse    *Verse  `json:"verse"`
	Score    float64 `json:"score,omitempty"`
	Distance int     `json:"distance"`
	Rank     int     `json:"rank"`
}

// SearchResponse is the response for a search request. Keyword results are in
// canonical (book, chapter, verse) order; approximate results are by ascending distance.
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	Total       int             `json:"total"`
	Query       string          `json:"query"`
	Within      string          `json:"within,omitempty"`
	Translation string          `json:"translation"`
	Mode        string          `json:"mode"`
	QueryTime   int64           `json:"query_time_ms"`
	// Suggestions holds a "Did you mean?" corrected query when a keyword
	// search found nothing and some query terms are not in the index.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Passage is a looked-up selection of verses, in corpus order.
type Passage struct {
	Translation string   `json:"translation"`
	Reference   string   `json:"reference"`
	Verses      []*Verse `json:"verses"`
}
