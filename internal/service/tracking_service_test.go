package service

import (
	"context"
	"testing"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/testdata/mockcapi"
	"eduexpress-backend/internal/testdata/mockworker"
	"eduexpress-backend/internal/validation"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type TrackingServiceTestSuite struct {
	suite.Suite

	client  *mockcapi.Client
	worker  *mockworker.Worker
	service TrackingService
}

func TestTrackingServiceSuite(t *testing.T) {
	suite.Run(t, new(TrackingServiceTestSuite))
}

func (s *TrackingServiceTestSuite) SetupTest() {
	s.client = &mockcapi.Client{}
	s.worker = &mockworker.Worker{}
	tracker := NewConversionTracker(s.client, s.worker, zap.NewNop())
	normalizer := conversion.NewNormalizer("https://eduexpressint.com", 2*time.Minute)
	s.service = NewTrackingService(normalizer, tracker, validation.New(), TrackingConfig{
		PixelID:           "123456",
		GTMContainerID:    "GTM-ABC",
		ServerSideEnabled: true,
	})
}

func (s *TrackingServiceTestSuite) TearDownTest() {
	s.client.AssertExpectations(s.T())
	s.worker.AssertExpectations(s.T())
}

func (s *TrackingServiceTestSuite) TestTrack_ForwardsEvent() {
	s.client.On("Send", mock.Anything, mock.MatchedBy(func(e model.CanonicalEvent) bool {
		return e.EventName == model.EventSchedule &&
			e.EventID == "browser-evt-1" &&
			e.SourceURL == "https://eduexpressint.com/book?utm_source=google" &&
			e.CustomData.Value == conversion.Value(model.EventSchedule) &&
			e.UserData.ClientIP == "10.0.0.9"
	})).Return(model.DeliveryResult{Status: model.DeliverySent, EventID: "browser-evt-1"}).Once()
	s.worker.On("Record", mock.MatchedBy(func(r model.DeliveryRecord) bool {
		return r.RecordType == RecordTypeTrack && r.RecordID == "" && r.EventID == "browser-evt-1"
	})).Once()

	res, err := s.service.Track(context.Background(), model.TrackRequest{
		EventName: "Schedule",
		EventID:   "browser-evt-1",
		SourceURL: "https://eduexpressint.com/book?utm_source=google",
	}, model.RequestContext{ClientIP: "10.0.0.9"})

	s.Require().NoError(err)
	s.True(res.OK())
}

func (s *TrackingServiceTestSuite) TestTrack_FailureIsNotAnError() {
	s.client.On("Send", mock.Anything, mock.Anything).
		Return(model.DeliveryResult{Status: model.DeliveryFailed, Error: "unexpected status 500"}).Once()
	s.worker.On("Record", mock.Anything).Once()

	res, err := s.service.Track(context.Background(), model.TrackRequest{EventName: "PageView"}, model.RequestContext{})

	s.Require().NoError(err)
	s.Equal(model.DeliveryFailed, res.Status)
}

func (s *TrackingServiceTestSuite) TestTrack_RejectsInvalidInput() {
	for name, req := range map[string]model.TrackRequest{
		"missing name":     {},
		"blank name":       {EventName: "   "},
		"bad action":       {EventName: "Lead", ActionSource: "billboard"},
		"future timestamp": {EventName: "Lead", EventTime: time.Now().Add(time.Hour).Unix()},
		"bad currency":     {EventName: "Lead", Currency: "DOLLARS"},
	} {
		_, err := s.service.Track(context.Background(), req, model.RequestContext{})
		var ve *apperror.ValidationError
		s.ErrorAs(err, &ve, name)
	}
	s.client.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything)
}

func (s *TrackingServiceTestSuite) TestPublicConfig() {
	cfg := s.service.PublicConfig()
	s.Equal("123456", cfg.PixelID)
	s.Equal("GTM-ABC", cfg.GTMContainerID)
	s.True(cfg.ServerSideEnabled)
}
