package source

import (
	"context"

	"fundboard/internal/core"
)

// Ports for inbound dataset adapters.
type (
	// RecordSource delivers the raw funding dataset. It is read once at startup.
	RecordSource interface {
		LoadRecords(ctx context.Context) ([]core.RawRecord, error)
	}

	// RecordWriter replaces the stored dataset wholesale.
	RecordWriter interface {
		ReplaceRecords(ctx context.Context, records []core.RawRecord) (int, error)
	}
)
