// Package conversion turns business records into canonical conversion events.
package conversion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"

	"github.com/google/uuid"
)

const maxEventNameLength = 100

// Custom data keys attached to lead events.
const (
	KeyDestinationCountry = "destination_country"
	KeyProgramType        = "program_type"
	KeyLeadSource         = "lead_source"
	KeyCompanyName        = "company_name"
	KeyIndustry           = "industry"
	KeyPartnershipType    = "partnership_type"
)

// Normalizer builds CanonicalEvent snapshots.
type Normalizer struct {
	baseURL         string
	futureTolerance time.Duration
	now             func() time.Time
	newID           func() string
}

// NewNormalizer constructs a Normalizer. baseURL is the default event source URL.
func NewNormalizer(baseURL string, futureTolerance time.Duration) *Normalizer {
	return &Normalizer{
		baseURL:         strings.TrimRight(baseURL, "/"),
		futureTolerance: futureTolerance,
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
	}
}

// ForLead builds the Lead event for a stored student enquiry.
// The event id is the record id so retried deliveries deduplicate downstream.
func (n *Normalizer) ForLead(lead model.Lead, rc model.RequestContext) model.CanonicalEvent {
	ts := n.recordTime(lead.CreatedAt)
	first, last := SplitFullName(lead.Name)

	ud := n.userData(lead.AttributionSnapshot, rc, ts)
	ud.Email = lead.Email
	ud.Phone = lead.Phone
	ud.FirstName = first
	ud.LastName = last
	ud.City = lead.City
	ud.Country = lead.Country
	ud.ExternalID = n.recordID(lead.ID.IsZero(), lead.ID.Hex())

	extra := map[string]string{}
	setIf(extra, KeyDestinationCountry, lead.DestinationCountry)
	setIf(extra, KeyProgramType, lead.ProgramType)
	setIf(extra, KeyLeadSource, lead.Source)

	return model.CanonicalEvent{
		EventName:    model.EventLead,
		EventID:      ud.ExternalID,
		EventTime:    ts.Unix(),
		SourceURL:    n.sourceURL(lead.PageURL, rc),
		ActionSource: model.ActionWebsite,
		UserData:     ud,
		CustomData: model.CustomData{
			ContentName:     "Student Enquiry",
			ContentCategory: model.CollectionLeads,
			Currency:        DefaultCurrency,
			Value:           RecordValue(model.CollectionLeads),
			Extra:           extra,
		},
	}
}

// ForB2BLead builds the Lead event for a stored partnership enquiry.
func (n *Normalizer) ForB2BLead(lead model.B2BLead, rc model.RequestContext) model.CanonicalEvent {
	ts := n.recordTime(lead.CreatedAt)
	first, last := SplitFullName(lead.ContactPerson)

	ud := n.userData(lead.AttributionSnapshot, rc, ts)
	ud.Email = lead.Email
	ud.Phone = lead.Phone
	ud.FirstName = first
	ud.LastName = last
	ud.City = lead.City
	ud.Country = lead.Country
	ud.ExternalID = n.recordID(lead.ID.IsZero(), lead.ID.Hex())

	extra := map[string]string{}
	setIf(extra, KeyCompanyName, lead.CompanyName)
	setIf(extra, KeyIndustry, lead.Industry)
	setIf(extra, KeyPartnershipType, lead.PartnershipType)
	setIf(extra, KeyLeadSource, lead.Source)

	return model.CanonicalEvent{
		EventName:    model.EventLead,
		EventID:      ud.ExternalID,
		EventTime:    ts.Unix(),
		SourceURL:    n.sourceURL(lead.PageURL, rc),
		ActionSource: model.ActionWebsite,
		UserData:     ud,
		CustomData: model.CustomData{
			ContentName:     "B2B Partnership Enquiry",
			ContentCategory: model.CollectionB2BLeads,
			Currency:        DefaultCurrency,
			Value:           RecordValue(model.CollectionB2BLeads),
			Extra:           extra,
		},
	}
}

// ForTrack builds an event forwarded from the browser.
func (n *Normalizer) ForTrack(req model.TrackRequest, snap model.AttributionSnapshot, rc model.RequestContext) (model.CanonicalEvent, error) {
	name := strings.TrimSpace(req.EventName)
	if name == "" {
		return model.CanonicalEvent{}, apperror.NewValidation("eventName is required")
	}
	if len(name) > maxEventNameLength {
		return model.CanonicalEvent{}, apperror.NewValidation("eventName must be at most %d characters", maxEventNameLength)
	}

	action := model.ActionWebsite
	if req.ActionSource != "" {
		action = model.ActionSource(req.ActionSource)
		if !action.Valid() {
			return model.CanonicalEvent{}, apperror.NewValidation("unsupported actionSource %q", req.ActionSource)
		}
	}

	now := n.now().UTC()
	ts := now
	if req.EventTime > 0 {
		ts = time.Unix(req.EventTime, 0).UTC()
		if err := ValidateEventTime(ts, now, n.futureTolerance); err != nil {
			return model.CanonicalEvent{}, apperror.NewValidation("%s", err.Error())
		}
	}

	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		eventID = n.newID()
	}

	value := Value(model.EventName(name))
	if req.Value != nil {
		value = *req.Value
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	first, last := SplitFullName(req.Name)
	ud := n.userData(snap, rc, ts)
	ud.Email = req.Email
	ud.Phone = req.Phone
	ud.FirstName = first
	ud.LastName = last

	var extra map[string]string
	if len(req.Custom) > 0 {
		extra = make(map[string]string, len(req.Custom))
		for k, v := range req.Custom {
			extra[k] = v
		}
	}

	return model.CanonicalEvent{
		EventName:    model.EventName(name),
		EventID:      eventID,
		EventTime:    ts.Unix(),
		SourceURL:    n.sourceURL(req.SourceURL, rc),
		ActionSource: action,
		UserData:     ud,
		CustomData: model.CustomData{
			ContentName:     req.ContentName,
			ContentCategory: req.ContentCategory,
			ContentIDs:      append([]string(nil), req.ContentIDs...),
			Currency:        currency,
			Value:           value,
			Extra:           extra,
		},
	}, nil
}

// ValidateEventTime ensures event times are not too far in the future.
func ValidateEventTime(ts time.Time, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}
	if ts.After(now.Add(tolerance)) {
		return errors.New("eventTime cannot be in the future")
	}
	return nil
}

// BuildFBC formats a click id the way the Meta pixel stores it in the _fbc cookie.
func BuildFBC(clickID string, ts time.Time) string {
	if clickID == "" {
		return ""
	}
	return fmt.Sprintf("fb.1.%d.%s", ts.UnixMilli(), clickID)
}

func (n *Normalizer) userData(snap model.AttributionSnapshot, rc model.RequestContext, ts time.Time) model.UserData {
	ud := model.UserData{
		ClientIP:  rc.ClientIP,
		UserAgent: rc.UserAgent,
		FBC:       rc.FBC,
		FBP:       rc.FBP,
	}
	if ud.FBC == "" && snap.MetaTracking != nil {
		ud.FBC = BuildFBC(snap.MetaTracking.ClickID, ts)
	}
	if snap.GTMTracking != nil {
		ud.GCLID = snap.GTMTracking.ClickID
	}
	return ud
}

func (n *Normalizer) sourceURL(recordURL string, rc model.RequestContext) string {
	for _, candidate := range []string{recordURL, rc.PageURL, rc.Referrer} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return n.baseURL
}

func (n *Normalizer) recordTime(createdAt time.Time) time.Time {
	if createdAt.IsZero() {
		return n.now().UTC()
	}
	return createdAt.UTC()
}

func (n *Normalizer) recordID(missing bool, hex string) string {
	if missing {
		return n.newID()
	}
	return hex
}

func setIf(m map[string]string, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		m[key] = value
	}
}
