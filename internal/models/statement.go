// Package models defines data structures for favalens
package models

// Totals holds the headline figures of an income statement. A nil field
// means the value could not be determined from the upstream response.
type Totals struct {
	Income    *float64 `json:"income"`
	Expenses  *float64 `json:"expenses"`
	NetProfit *float64 `json:"net_profit"`
}

// CategoryEntry is a named account or line item with its monetary value,
// extracted from the upstream category tree.
type CategoryEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is the best-effort human-readable view of an income statement.
// TopIncome and TopExpenses are always non-nil so they serialize as arrays.
type Summary struct {
	Totals      Totals          `json:"totals"`
	TopIncome   []CategoryEntry `json:"top_income"`
	TopExpenses []CategoryEntry `json:"top_expenses"`
	Notes       []string        `json:"notes"`
}

// Result is the response body for the income statement endpoint. Raw carries
// the upstream JSON verbatim and is omitted when the caller opts out. It is
// a pointer so that presence is independent of the value: an upstream body
// of JSON null is still echoed as "raw": null.
type Result struct {
	Source  string  `json:"source"`
	Summary Summary `json:"summary"`
	Raw     *any    `json:"raw,omitempty"`
}

// Float returns a pointer to v, for filling optional Totals fields.
func Float(v float64) *float64 {
	return &v
}
