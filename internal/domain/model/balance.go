package model

// Balance is one user's funds. Created lazily on first credit, never
// deleted, never allowed negative by the transfer primitive.
type Balance struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}
