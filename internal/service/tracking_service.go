package service

import (
	"context"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/tracking"

	"github.com/go-playground/validator/v10"
)

// TrackingConfig is the public configuration the frontend needs to load its tags.
type TrackingConfig struct {
	PixelID           string `json:"pixelId,omitempty"`
	GTMContainerID    string `json:"gtmContainerId,omitempty"`
	ServerSideEnabled bool   `json:"serverSideEnabled"`
}

type TrackingService interface {
	Track(ctx context.Context, req model.TrackRequest, rc model.RequestContext) (model.DeliveryResult, error)
	PublicConfig() TrackingConfig
}

type trackingService struct {
	normalizer *conversion.Normalizer
	tracker    ConversionTracker
	validate   *validator.Validate
	config     TrackingConfig
}

// NewTrackingService constructs a trackingService.
func NewTrackingService(normalizer *conversion.Normalizer, tracker ConversionTracker, validate *validator.Validate, cfg TrackingConfig) TrackingService {
	return &trackingService{normalizer: normalizer, tracker: tracker, validate: validate, config: cfg}
}

// Track forwards a browser event server side. Only malformed input is an error.
func (s *trackingService) Track(ctx context.Context, req model.TrackRequest, rc model.RequestContext) (model.DeliveryResult, error) {
	req = req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return model.DeliveryResult{}, apperror.FromValidator(err)
	}

	rc.PageURL = firstNonEmpty(req.SourceURL, rc.PageURL)
	event, err := s.normalizer.ForTrack(req, tracking.FromRequest(req.Attribution, rc), rc)
	if err != nil {
		return model.DeliveryResult{}, err
	}
	return s.tracker.Deliver(ctx, RecordTypeTrack, "", event), nil
}

func (s *trackingService) PublicConfig() TrackingConfig {
	return s.config
}
