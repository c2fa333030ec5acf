package model

// Candidate is an (id, display name) pair offered to entity resolution.
type Candidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
