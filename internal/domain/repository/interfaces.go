package repository

import (
	"context"

	"SwingPull/internal/domain/models"
)

// IndexQuote is a bare level/previous-close pair for macro symbols that have
// no volume statistics worth carrying (futures, VIX, yields, DXY).
type IndexQuote struct {
	Symbol    string
	Level     float64
	PrevClose float64
}

// QuoteProvider is the upstream market-data source. Both calls must complete
// or fail within a bounded time; callers additionally wrap them in a timeout.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (*models.InstrumentQuote, error)
	FetchIndex(ctx context.Context, symbol string) (*IndexQuote, error)
}

// SnapshotPublisher emits each published snapshot to an external bus for
// programmatic consumers. Optional; a nil publisher disables emission.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error
	Close() error
}

// Exporter renders a snapshot into a spreadsheet on disk and returns its path.
type Exporter interface {
	Export(snap *models.MarketSnapshot) (string, error)
}

// Mailer delivers a rendered spreadsheet.
type Mailer interface {
	Send(snap *models.MarketSnapshot, attachmentPath string) error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordRefresh(result string)
	RecordFetchError(symbol string)
	RecordComposite(symbol string, score float64)
	RecordLastPrice(symbol string, price float64)
	RecordCycleDuration(seconds float64)
	RecordEmail(result string)
}
