// Package interfaces defines service contracts for favalens
package interfaces

import "context"

// FavaClient provides access to Fava's income statement API
type FavaClient interface {
	// GetIncomeStatement fetches the income statement JSON for the
	// configured ledger. The returned value is the decoded body as-is;
	// no schema is assumed.
	GetIncomeStatement(ctx context.Context, params IncomeStatementParams) (any, error)

	// IncomeStatementURL returns the composed upstream URL, for echoing
	// as the "source" of a result.
	IncomeStatementURL() string
}

// IncomeStatementParams holds the optional Fava report filters. Empty
// fields are omitted from the outbound query entirely.
type IncomeStatementParams struct {
	Time       string // e.g. "2024", "2025-01-01..2025-06-30"
	Interval   string // e.g. "month", "quarter", "year"
	Conversion string // e.g. "USD", "units"
	Filter     string // Fava filter string (account:, tag:, payee:, ...)
}
