package model

// Line is one unit of input text handed to the encode pipeline.
type Line struct {
	Number int    // 1-based position in the source
	Text   string // without the trailing newline
}

// Record is the encode result for a single line.
type Record struct {
	Line   int      `json:"line"`
	Text   string   `json:"text,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
	IDs    []int    `json:"ids"`
}
