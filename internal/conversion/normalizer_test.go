package conversion

import (
	"testing"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NormalizerTestSuite struct {
	suite.Suite
	normalizer *Normalizer
	frozen     time.Time
}

func TestNormalizerSuite(t *testing.T) {
	suite.Run(t, new(NormalizerTestSuite))
}

func (s *NormalizerTestSuite) SetupTest() {
	s.frozen = time.Unix(1_700_000_000, 0).UTC()
	s.normalizer = NewNormalizer("https://eduexpressint.com/", 2*time.Minute)
	s.normalizer.now = func() time.Time { return s.frozen }
	s.normalizer.newID = func() string { return "generated-id" }
}

func (s *NormalizerTestSuite) TestForB2BLead_ScenarioA() {
	id := primitive.NewObjectID()
	lead := model.B2BLead{
		Document: model.Document{ID: id, CreatedAt: s.frozen.Add(-time.Second)},
		AttributionSnapshot: model.AttributionSnapshot{
			MetaTracking: &model.MetaTracking{ClickID: "abc123"},
			UTMParams:    &model.UTMParams{Source: "newsletter"},
		},
		CompanyName:   "Acme",
		ContactPerson: "Jane Doe",
		Email:         "jane@acme.com",
		Industry:      "Education",
	}

	event := s.normalizer.ForB2BLead(lead, model.RequestContext{ClientIP: "10.0.0.1", UserAgent: "ua"})

	s.Equal(model.EventLead, event.EventName)
	s.Equal(id.Hex(), event.EventID)
	s.Equal(lead.CreatedAt.Unix(), event.EventTime)
	s.Equal(model.ActionWebsite, event.ActionSource)
	s.Equal("https://eduexpressint.com", event.SourceURL)
	s.Equal("Jane", event.UserData.FirstName)
	s.Equal("Doe", event.UserData.LastName)
	s.Equal("jane@acme.com", event.UserData.Email)
	s.Equal("10.0.0.1", event.UserData.ClientIP)
	s.Equal(BuildFBC("abc123", lead.CreatedAt), event.UserData.FBC)
	s.Equal(5.0, event.CustomData.Value)
	s.Equal("USD", event.CustomData.Currency)
	s.Equal("Acme", event.CustomData.Extra[KeyCompanyName])
	s.Equal("Education", event.CustomData.Extra[KeyIndustry])
}

func (s *NormalizerTestSuite) TestForLead_ValueDiffersFromB2B() {
	lead := model.Lead{
		Document:           model.Document{ID: primitive.NewObjectID(), CreatedAt: s.frozen},
		Name:               "Rahim",
		Email:              "rahim@example.com",
		DestinationCountry: "UK",
		PageURL:            "https://eduexpressint.com/contact",
	}

	event := s.normalizer.ForLead(lead, model.RequestContext{Referrer: "https://google.com"})

	s.Equal(1.0, event.CustomData.Value)
	s.NotEqual(RecordValue(model.CollectionB2BLeads), event.CustomData.Value)
	s.Equal("https://eduexpressint.com/contact", event.SourceURL)
	s.Equal("Rahim", event.UserData.FirstName)
	s.Empty(event.UserData.LastName)
	s.Equal("UK", event.CustomData.Extra[KeyDestinationCountry])
	s.Empty(event.UserData.FBC)
}

func (s *NormalizerTestSuite) TestForLead_IsSnapshot() {
	lead := model.Lead{
		Document: model.Document{ID: primitive.NewObjectID(), CreatedAt: s.frozen},
		AttributionSnapshot: model.AttributionSnapshot{
			GTMTracking: &model.GTMTracking{ClickID: "g-1"},
		},
		Name:  "Jane Doe",
		Email: "jane@example.com",
	}

	event := s.normalizer.ForLead(lead, model.RequestContext{})
	lead.Email = "changed@example.com"
	lead.GTMTracking.ClickID = "changed"

	s.Equal("jane@example.com", event.UserData.Email)
	s.Equal("g-1", event.UserData.GCLID)
}

func (s *NormalizerTestSuite) TestForLead_CookieFBCWins() {
	lead := model.Lead{
		AttributionSnapshot: model.AttributionSnapshot{MetaTracking: &model.MetaTracking{ClickID: "abc"}},
		Email:               "a@b.com",
	}

	event := s.normalizer.ForLead(lead, model.RequestContext{FBC: "fb.1.1.cookie", FBP: "fb.1.1.999"})

	s.Equal("fb.1.1.cookie", event.UserData.FBC)
	s.Equal("fb.1.1.999", event.UserData.FBP)
	s.Equal("generated-id", event.EventID)
	s.Equal(s.frozen.Unix(), event.EventTime)
}

func (s *NormalizerTestSuite) TestForTrack() {
	value := 42.0
	tests := []struct {
		name   string
		req    model.TrackRequest
		errMsg string
		check  func(model.CanonicalEvent)
	}{
		{
			name:   "missing event name",
			req:    model.TrackRequest{EventName: "  "},
			errMsg: "eventName is required",
		},
		{
			name:   "unknown action source",
			req:    model.TrackRequest{EventName: "Contact", ActionSource: "fax"},
			errMsg: `unsupported actionSource "fax"`,
		},
		{
			name:   "future event time",
			req:    model.TrackRequest{EventName: "Contact", EventTime: s.frozen.Add(time.Hour).Unix()},
			errMsg: "eventTime cannot be in the future",
		},
		{
			name: "defaults from table",
			req:  model.TrackRequest{EventName: "SubmitApplication", Name: "Mary Ann Smith"},
			check: func(e model.CanonicalEvent) {
				s.Equal(25.0, e.CustomData.Value)
				s.Equal("USD", e.CustomData.Currency)
				s.Equal("generated-id", e.EventID)
				s.Equal(s.frozen.Unix(), e.EventTime)
				s.Equal(model.ActionWebsite, e.ActionSource)
				s.Equal("Mary", e.UserData.FirstName)
				s.Equal("Ann Smith", e.UserData.LastName)
			},
		},
		{
			name: "caller supplied values",
			req: model.TrackRequest{
				EventName:    "Webinar",
				EventID:      "evt-1",
				EventTime:    s.frozen.Add(-time.Minute).Unix(),
				ActionSource: "chat",
				Value:        &value,
				Currency:     "bdt",
				SourceURL:    "https://eduexpressint.com/webinar",
				Custom:       map[string]string{"topic": "visa"},
			},
			check: func(e model.CanonicalEvent) {
				s.Equal(model.EventName("Webinar"), e.EventName)
				s.Equal("evt-1", e.EventID)
				s.Equal(model.ActionChat, e.ActionSource)
				s.Equal(42.0, e.CustomData.Value)
				s.Equal("BDT", e.CustomData.Currency)
				s.Equal("https://eduexpressint.com/webinar", e.SourceURL)
				s.Equal("visa", e.CustomData.Extra["topic"])
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			event, err := s.normalizer.ForTrack(tc.req, model.AttributionSnapshot{}, model.RequestContext{})
			if tc.errMsg != "" {
				var ve *apperror.ValidationError
				s.ErrorAs(err, &ve)
				s.EqualError(err, tc.errMsg)
				return
			}
			s.NoError(err)
			tc.check(event)
		})
	}
}

func (s *NormalizerTestSuite) TestValidateEventTime() {
	now := s.frozen
	s.NoError(ValidateEventTime(now.Add(time.Minute), now, 2*time.Minute))
	s.Error(ValidateEventTime(now.Add(3*time.Minute), now, 2*time.Minute))
	s.NoError(ValidateEventTime(now.Add(time.Hour), now, 0))
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"", "", ""},
		{"Jane", "Jane", ""},
		{"Jane Doe", "Jane", "Doe"},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"Mary Ann Smith", "Mary", "Ann Smith"},
	}
	for _, tc := range tests {
		first, last := SplitFullName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitFullName(%q) = (%q, %q), want (%q, %q)", tc.in, first, last, tc.first, tc.last)
		}
	}
}

func TestValueTable(t *testing.T) {
	tests := map[model.EventName]float64{
		model.EventPageView:             0,
		model.EventContact:              1,
		model.EventLead:                 1,
		model.EventSchedule:             3,
		model.EventCompleteRegistration: 10,
		model.EventSubmitApplication:    25,
		model.EventPurchase:             0,
		"CustomThing":                   0,
	}
	for name, want := range tests {
		if got := Value(name); got != want {
			t.Errorf("Value(%s) = %v, want %v", name, got, want)
		}
	}
	if RecordValue(model.CollectionB2BLeads) != B2BLeadValue {
		t.Errorf("b2b lead value = %v", RecordValue(model.CollectionB2BLeads))
	}
}
