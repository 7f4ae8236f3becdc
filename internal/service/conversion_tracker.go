package service

import (
	"context"
	"time"

	"eduexpress-backend/internal/capi"
	"eduexpress-backend/internal/model"

	"go.uber.org/zap"
)

// ConversionTracker delivers canonical events and records every outcome in the delivery log.
// It never fails the caller.
type ConversionTracker interface {
	Deliver(ctx context.Context, recordType, recordID string, event model.CanonicalEvent) model.DeliveryResult
}

type conversionTracker struct {
	client     capi.Client
	deliveries DeliveryLogWorker
	log        *zap.Logger
	now        func() time.Time
}

// NewConversionTracker wires the conversions client to the delivery log.
func NewConversionTracker(client capi.Client, deliveries DeliveryLogWorker, log *zap.Logger) ConversionTracker {
	return &conversionTracker{client: client, deliveries: deliveries, log: log, now: time.Now}
}

func (t *conversionTracker) Deliver(ctx context.Context, recordType, recordID string, event model.CanonicalEvent) (res model.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("conversion delivery panicked",
				zap.Any("panic", r),
				zap.String("event_id", event.EventID),
				zap.String("record_type", recordType))
			res = model.DeliveryResult{
				Status:    model.DeliveryFailed,
				EventID:   event.EventID,
				EventName: event.EventName,
				Error:     "internal delivery error",
			}
		}
		t.deliveries.Record(model.NewDeliveryRecord(recordType, recordID, res, t.now()))
	}()

	// The request may be cancelled once the record is stored; the client applies its own deadline.
	return t.client.Send(context.WithoutCancel(ctx), event)
}
