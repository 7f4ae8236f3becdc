package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/service"
	"eduexpress-backend/internal/testdata/mockcapi"
	"eduexpress-backend/internal/testdata/mockrepository"
	"eduexpress-backend/internal/testdata/mockworker"
	"eduexpress-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LeadFlowTestSuite runs the handlers over the real services so request
// decoding, normalization and validation are exercised together.
type LeadFlowTestSuite struct {
	suite.Suite

	app       *fiber.App
	leadStore *mockrepository.Store[model.Lead]
	b2bStore  *mockrepository.Store[model.B2BLead]
	client    *mockcapi.Client
	worker    *mockworker.Worker
}

func TestLeadFlowSuite(t *testing.T) {
	suite.Run(t, new(LeadFlowTestSuite))
}

func (s *LeadFlowTestSuite) SetupTest() {
	s.leadStore = &mockrepository.Store[model.Lead]{}
	s.b2bStore = &mockrepository.Store[model.B2BLead]{}
	s.client = &mockcapi.Client{}
	s.worker = &mockworker.Worker{}

	log := zap.NewNop()
	validate := validation.New()
	normalizer := conversion.NewNormalizer("https://eduexpressint.com", 2*time.Minute)
	tracker := service.NewConversionTracker(s.client, s.worker, log)

	leads := NewLeadController(service.NewLeadService(s.leadStore, s.b2bStore, normalizer, tracker, validate, log))
	tracking := NewTrackingController(service.NewTrackingService(normalizer, tracker, validate, service.TrackingConfig{}))

	s.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	s.app.Post("/api/leads", leads.CreateLead)
	s.app.Post("/api/b2b-leads", leads.CreateB2BLead)
	s.app.Post("/api/track", tracking.Track)
}

func (s *LeadFlowTestSuite) TearDownTest() {
	s.leadStore.AssertExpectations(s.T())
	s.b2bStore.AssertExpectations(s.T())
	s.client.AssertExpectations(s.T())
	s.worker.AssertExpectations(s.T())
}

func (s *LeadFlowTestSuite) do(req *http.Request) (*http.Response, envelope) {
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var env envelope
	s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func (s *LeadFlowTestSuite) sent(email string) {
	s.client.On("Send", mock.Anything, mock.MatchedBy(func(e model.CanonicalEvent) bool {
		return e.UserData.Email == email
	})).Return(model.DeliveryResult{Status: model.DeliverySent, Attempts: 1}).Once()
	s.worker.On("Record", mock.Anything).Once()
}

func assignID(args mock.Arguments) {
	args.Get(1).(interface{ Base() *model.Document }).Base().ID = primitive.NewObjectID()
}

func (s *LeadFlowTestSuite) TestCreateLead_PaddedEmailAccepted() {
	s.leadStore.On("Insert", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
		return l.Email == "jane@example.com" && l.Name == "Jane Doe"
	})).Run(assignID).Return(nil).Once()
	s.sent("jane@example.com")

	resp, env := s.do(jsonRequest(http.MethodPost, "/api/leads", map[string]any{
		"name":  " Jane Doe ",
		"email": "  Jane@Example.com ",
	}))

	s.Equal(http.StatusCreated, resp.StatusCode, env.Error)
	s.True(env.Success)
	s.Equal(leadCreatedMessage, env.Message)
}

func (s *LeadFlowTestSuite) TestCreateB2BLead_PaddedEmailAccepted() {
	s.b2bStore.On("Insert", mock.Anything, mock.MatchedBy(func(l *model.B2BLead) bool {
		return l.Email == "rahim@acme.example" && l.CompanyName == "Acme"
	})).Run(assignID).Return(nil).Once()
	s.sent("rahim@acme.example")

	resp, env := s.do(jsonRequest(http.MethodPost, "/api/b2b-leads", map[string]any{
		"companyName":   "Acme ",
		"contactPerson": "Rahim",
		"email":         "\tRahim@Acme.Example ",
	}))

	s.Equal(http.StatusCreated, resp.StatusCode, env.Error)
	s.True(env.Success)
}

func (s *LeadFlowTestSuite) TestTrack_PaddedEmailAccepted() {
	s.sent("jane@example.com")

	resp, env := s.do(jsonRequest(http.MethodPost, "/api/track", map[string]any{
		"eventName": "Contact",
		"email":     " Jane@Example.com ",
	}))

	s.Equal(http.StatusAccepted, resp.StatusCode, env.Error)
	s.True(env.Success)
}

func (s *LeadFlowTestSuite) TestCreateLead_BlankEmailStillRejected() {
	resp, env := s.do(jsonRequest(http.MethodPost, "/api/leads", map[string]any{
		"name":  "Jane",
		"email": "   ",
	}))

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.False(env.Success)
	s.Contains(env.Details, "email")
}
