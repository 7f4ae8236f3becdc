package repository

import (
	"context"
	"fmt"

	"eduexpress-backend/internal/db"
	"eduexpress-backend/internal/model"
)

// DeliveryRepository stores the conversion delivery log.
type DeliveryRepository interface {
	// CreateBatch inserts multiple delivery records in one round trip.
	CreateBatch(ctx context.Context, records []model.DeliveryRecord) error

	// FetchDeliveryStats counts deliveries per event name and status.
	FetchDeliveryStats(ctx context.Context, window model.Window) ([]model.DeliveryStat, error)
}

type deliveryRepository struct {
	conn db.Conn
}

// NewDeliveryRepository creates a DeliveryRepository backed by ClickHouse.
func NewDeliveryRepository(conn db.Conn) DeliveryRepository {
	return &deliveryRepository{conn: conn}
}

const insertDeliveryQuery = `INSERT INTO ` + db.DeliveriesTable +
	` (event_id, event_name, record_type, record_id, status, attempts, http_status, error, ts)`

const deliveryStatsQuery = `
	SELECT event_name, status, count() AS total
	FROM ` + db.DeliveriesTable + ` FINAL
	WHERE ts >= ? AND ts <= ?
	GROUP BY event_name, status
	ORDER BY total DESC, event_name, status
`

func (r *deliveryRepository) CreateBatch(ctx context.Context, records []model.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertDeliveryQuery)
	if err != nil {
		return fmt.Errorf("prepare delivery batch: %w", err)
	}

	for _, rec := range records {
		if err := batch.Append(
			rec.EventID,
			rec.EventName,
			rec.RecordType,
			rec.RecordID,
			rec.Status,
			clampUint8(rec.Attempts),
			clampUint16(rec.StatusCode),
			rec.Error,
			rec.Timestamp,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append delivery record: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send delivery batch: %w", err)
	}
	return nil
}

func (r *deliveryRepository) FetchDeliveryStats(ctx context.Context, window model.Window) ([]model.DeliveryStat, error) {
	rows, err := r.conn.Query(ctx, deliveryStatsQuery, window.From.UTC(), window.To.UTC())
	if err != nil {
		return nil, fmt.Errorf("query delivery stats: %w", err)
	}
	defer rows.Close()

	stats := []model.DeliveryStat{}
	for rows.Next() {
		var st model.DeliveryStat
		if err := rows.Scan(&st.EventName, &st.Status, &st.Count); err != nil {
			return nil, fmt.Errorf("scan delivery stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery stats: %w", err)
	}
	return stats, nil
}

func clampUint8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func clampUint16(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > 65535:
		return 65535
	}
	return uint16(v)
}
