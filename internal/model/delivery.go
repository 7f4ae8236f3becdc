package model

import "time"

// DeliveryStatus is the outcome of a conversion delivery.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// DeliveryResult is returned by the conversions client instead of an error.
type DeliveryResult struct {
	Status         DeliveryStatus `json:"status"`
	EventID        string         `json:"eventId,omitempty"`
	EventName      EventName      `json:"eventName,omitempty"`
	Attempts       int            `json:"attempts"`
	StatusCode     int            `json:"statusCode,omitempty"`
	EventsReceived int            `json:"eventsReceived,omitempty"`
	TraceID        string         `json:"traceId,omitempty"`
	Error          string         `json:"error,omitempty"`
	Duration       time.Duration  `json:"-"`
}

// OK reports whether the platform accepted the event.
func (r DeliveryResult) OK() bool {
	return r.Status == DeliverySent
}

// DeliveryRecord is one row of the delivery log.
type DeliveryRecord struct {
	EventID    string
	EventName  string
	RecordType string
	RecordID   string
	Status     string
	Attempts   int
	StatusCode int
	Error      string
	Timestamp  time.Time
}

// NewDeliveryRecord flattens a result for the delivery log.
func NewDeliveryRecord(recordType, recordID string, res DeliveryResult, ts time.Time) DeliveryRecord {
	return DeliveryRecord{
		EventID:    res.EventID,
		EventName:  string(res.EventName),
		RecordType: recordType,
		RecordID:   recordID,
		Status:     string(res.Status),
		Attempts:   res.Attempts,
		StatusCode: res.StatusCode,
		Error:      res.Error,
		Timestamp:  ts.UTC(),
	}
}
