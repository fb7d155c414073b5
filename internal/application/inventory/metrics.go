package inventory

import "context"

// StockMetricsRecorder records business metrics for ledger activity. The
// telemetry layer provides the production implementation; a nil recorder
// disables recording.
type StockMetricsRecorder interface {
	// RecordLedgerEntry records a committed ledger entry
	RecordLedgerEntry(ctx context.Context, transactionType, referenceType string)

	// RecordReservation records a placed reservation
	RecordReservation(ctx context.Context, referenceType string)

	// RecordAlertOpened records a newly opened stock alert
	RecordAlertOpened(ctx context.Context, alertType string)
}
