package model

// StartToken is the "from" value of edges leading into the first token of a text.
const StartToken = ""

type Text struct {
	Content string `json:"content"`
	Ctime   int64  `json:"ctime"`
}

// Edge is an observed transition From -> To seen Count times.
type Edge struct {
	From  string `json:"from" db:"from"`
	To    string `json:"to" db:"to"`
	Count int64  `json:"count" db:"count"`
}

// LengthStats aggregates the character lengths of all recorded texts.
type LengthStats struct {
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type EdgeStats struct {
	Edges       int64 `json:"edges"`
	Transitions int64 `json:"transitions"`
	StartTokens int64 `json:"start_tokens"`
}

type ChainStats struct {
	Texts        int64   `json:"texts"`
	MeanLength   float64 `json:"mean_length"`
	StdDevLength float64 `json:"stddev_length"`
	EdgeStats
}
