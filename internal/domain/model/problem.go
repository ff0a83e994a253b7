package model

import "time"

// ProblemRecord is the four-field coding-problem description exchanged
// between the generation and suggestion flows. It is owned by the client; the
// server never persists it.
type ProblemRecord struct {
	ProblemStatement  string `json:"problem_statement"`
	Input             string `json:"input"`
	Output            string `json:"output"`
	OutputExplanation string `json:"output_explanation"`
}

// MissingFields lists the required fields that are absent or empty.
func (p *ProblemRecord) MissingFields() []string {
	var missing []string
	if p.ProblemStatement == "" {
		missing = append(missing, "problem_statement")
	}
	if p.Input == "" {
		missing = append(missing, "input")
	}
	if p.Output == "" {
		missing = append(missing, "output")
	}
	if p.OutputExplanation == "" {
		missing = append(missing, "output_explanation")
	}
	return missing
}

// CachedProblem is a best-effort cache entry of a generated problem, kept in
// redis per (language, difficulty).
type CachedProblem struct {
	ID         string        `json:"id"`
	Language   string        `json:"language"`
	Difficulty string        `json:"difficulty"`
	Record     ProblemRecord `json:"record"`
	CreatedAt  time.Time     `json:"created_at"`
}
