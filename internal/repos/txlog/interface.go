package txlog

// Log is the process-wide transaction id deduplication registry.
//
// Admit atomically marks txID as seen and reports whether this call was the
// first to do so. Safe for arbitrary concurrent use. Dispute, resolve and
// chargeback records reference an existing id and never pass through Admit.
type Log interface {
	Admit(txID uint32) bool
}
