package core

// Ledger operation outcomes reported to metrics
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// LedgerMetrics records the result of point changes
type LedgerMetrics interface {
	ObserveOperation(direction, outcome string, points int64, elapsed Duration)
}

// NopLedgerMetrics discards observations
type NopLedgerMetrics struct{}

// ObserveOperation implements LedgerMetrics
func (NopLedgerMetrics) ObserveOperation(string, string, int64, Duration) {}
