package model

// ExecutionResult is the normalized outcome of one sandbox run. Code and
// Signal are pointers so absent values serialize as null rather than zero.
type ExecutionResult struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}
