package conversion

import "eduexpress-backend/internal/model"

// DefaultCurrency is attached to every event that does not name one.
const DefaultCurrency = "USD"

// B2BLeadValue is the estimate for a partnership enquiry. It is reported under
// the Lead event name, so it cannot live in the per-event table.
const B2BLeadValue = 5.0

// eventValues holds the fixed estimates reported per event type.
// Events not listed carry a zero value.
var eventValues = map[model.EventName]float64{
	model.EventPageView:             0,
	model.EventContact:              1,
	model.EventLead:                 1,
	model.EventSchedule:             3,
	model.EventCompleteRegistration: 10,
	model.EventSubmitApplication:    25,
}

// Value returns the fixed estimate for an event name.
func Value(name model.EventName) float64 {
	return eventValues[name]
}

// RecordValue returns the estimate for a persisted record of the given collection.
func RecordValue(collection string) float64 {
	if collection == model.CollectionB2BLeads {
		return B2BLeadValue
	}
	return Value(model.EventLead)
}
