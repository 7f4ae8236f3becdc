package db

import (
	"context"
	"fmt"
)

// DeliveriesTable stores one row per conversion delivery attempt chain.
const DeliveriesTable = "conversion_deliveries"

const createDeliveriesTable = `
CREATE TABLE IF NOT EXISTS conversion_deliveries
(
	event_id        String,
	event_name      LowCardinality(String),
	record_type     LowCardinality(String),
	record_id       String,
	status          LowCardinality(String),
	attempts        UInt8,
	http_status     UInt16,
	error           String DEFAULT '',
	ts              DateTime64(3, 'UTC'),
	ingested_at     DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(ts)
ORDER BY (event_name, ts, event_id)
SETTINGS index_granularity = 8192;
`

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn Conn) error {
	if err := conn.Exec(ctx, createDeliveriesTable); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
