package models

// DocumentMatch is a document snippet returned by the retrieval backend,
// ordered by descending similarity. Matches live for one request only and
// are never persisted by this service.
type DocumentMatch struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
