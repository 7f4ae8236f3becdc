package service

import (
	"context"
	"strings"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"
	"eduexpress-backend/internal/tracking"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultLeadSource is stored when a form does not name its origin.
const DefaultLeadSource = "website"

// TrackingWarning is attached to a create response when the record was stored
// but the conversion could not be delivered.
const TrackingWarning = "record saved, conversion tracking failed"

// Record types written to the delivery log.
const (
	RecordTypeLead    = "lead"
	RecordTypeB2BLead = "b2b_lead"
	RecordTypeTrack   = "track"
)

var (
	leadSearchFields    = []string{"name", "email", "phone", "city", "destinationCountry"}
	b2bLeadSearchFields = []string{"companyName", "contactPerson", "email", "phone", "industry"}
)

// CreateResult is the outcome of a public form submission.
type CreateResult[T any] struct {
	Record   *T                   `json:"record"`
	Tracking model.DeliveryResult `json:"tracking"`
	Warning  string               `json:"warning,omitempty"`
}

func newCreateResult[T any](rec *T, res model.DeliveryResult) CreateResult[T] {
	out := CreateResult[T]{Record: rec, Tracking: res}
	if res.Status == model.DeliveryFailed {
		out.Warning = TrackingWarning
	}
	return out
}

type LeadService interface {
	CreateLead(ctx context.Context, req model.LeadRequest, rc model.RequestContext) (CreateResult[model.Lead], error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, q model.ListQuery) (model.Page[model.Lead], error)
	UpdateLead(ctx context.Context, id string, upd model.LeadUpdate) (*model.Lead, error)
	DeleteLead(ctx context.Context, id string) error

	CreateB2BLead(ctx context.Context, req model.B2BLeadRequest, rc model.RequestContext) (CreateResult[model.B2BLead], error)
	GetB2BLead(ctx context.Context, id string) (*model.B2BLead, error)
	ListB2BLeads(ctx context.Context, q model.ListQuery) (model.Page[model.B2BLead], error)
	UpdateB2BLead(ctx context.Context, id string, upd model.B2BLeadUpdate) (*model.B2BLead, error)
	DeleteB2BLead(ctx context.Context, id string) error
}

// leadService stores enquiries and reports them as conversions.
type leadService struct {
	leads      repository.Store[model.Lead]
	b2bLeads   repository.Store[model.B2BLead]
	normalizer *conversion.Normalizer
	tracker    ConversionTracker
	validate   *validator.Validate
	log        *zap.Logger
}

// NewLeadService constructs a leadService.
func NewLeadService(
	leads repository.Store[model.Lead],
	b2bLeads repository.Store[model.B2BLead],
	normalizer *conversion.Normalizer,
	tracker ConversionTracker,
	validate *validator.Validate,
	log *zap.Logger,
) LeadService {
	return &leadService{
		leads:      leads,
		b2bLeads:   b2bLeads,
		normalizer: normalizer,
		tracker:    tracker,
		validate:   validate,
		log:        log,
	}
}

// CreateLead persists a student enquiry, then delivers its Lead conversion.
// Persistence errors are returned; delivery failures only produce a warning.
func (s *leadService) CreateLead(ctx context.Context, req model.LeadRequest, rc model.RequestContext) (CreateResult[model.Lead], error) {
	req = req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return CreateResult[model.Lead]{}, apperror.FromValidator(err)
	}

	rc.PageURL = firstNonEmpty(req.PageURL, rc.PageURL)
	lead := &model.Lead{
		AttributionSnapshot: tracking.FromRequest(req.Attribution, rc),
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		City:                req.City,
		Country:             req.Country,
		DestinationCountry:  req.DestinationCountry,
		ProgramType:         req.ProgramType,
		Intake:              req.Intake,
		Message:             req.Message,
		Source:              firstNonEmpty(req.Source, DefaultLeadSource),
		PageURL:             rc.PageURL,
		Status:              model.LeadStatusNew,
		Priority:            model.PriorityMedium,
		IPAddress:           rc.ClientIP,
		UserAgent:           rc.UserAgent,
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		return CreateResult[model.Lead]{}, err
	}
	s.log.Info("lead created",
		zap.String("id", lead.ID.Hex()),
		zap.String("funnel_source", lead.FunnelSource()),
		zap.String("device", lead.DeviceType()))

	res := s.tracker.Deliver(ctx, RecordTypeLead, lead.ID.Hex(), s.normalizer.ForLead(*lead, rc))
	return newCreateResult(lead, res), nil
}

func (s *leadService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	return s.leads.FindByID(ctx, id)
}

func (s *leadService) ListLeads(ctx context.Context, q model.ListQuery) (model.Page[model.Lead], error) {
	q.SearchFields = leadSearchFields
	return s.leads.Find(ctx, q)
}

func (s *leadService) UpdateLead(ctx context.Context, id string, upd model.LeadUpdate) (*model.Lead, error) {
	if err := s.validate.Struct(upd); err != nil {
		return nil, apperror.FromValidator(err)
	}
	fields := patchFields(upd.Status, upd.Priority, upd.Notes, upd.AssignedTo)
	if len(fields) == 0 {
		return nil, apperror.NewValidation("no fields to update")
	}
	return s.leads.Update(ctx, id, fields)
}

func (s *leadService) DeleteLead(ctx context.Context, id string) error {
	return s.leads.Delete(ctx, id)
}

// CreateB2BLead persists a partnership enquiry, then delivers its Lead conversion.
func (s *leadService) CreateB2BLead(ctx context.Context, req model.B2BLeadRequest, rc model.RequestContext) (CreateResult[model.B2BLead], error) {
	req = req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return CreateResult[model.B2BLead]{}, apperror.FromValidator(err)
	}

	rc.PageURL = firstNonEmpty(req.PageURL, rc.PageURL)
	lead := &model.B2BLead{
		AttributionSnapshot: tracking.FromRequest(req.Attribution, rc),
		CompanyName:         req.CompanyName,
		ContactPerson:       req.ContactPerson,
		Email:               req.Email,
		Phone:               req.Phone,
		Website:             req.Website,
		City:                req.City,
		Country:             req.Country,
		Industry:            req.Industry,
		PartnershipType:     req.PartnershipType,
		StudentVolume:       req.StudentVolume,
		Message:             req.Message,
		Source:              firstNonEmpty(req.Source, DefaultLeadSource),
		PageURL:             rc.PageURL,
		Status:              model.B2BStatusNew,
		Priority:            model.PriorityMedium,
		IPAddress:           rc.ClientIP,
		UserAgent:           rc.UserAgent,
	}

	if err := s.b2bLeads.Insert(ctx, lead); err != nil {
		return CreateResult[model.B2BLead]{}, err
	}
	s.log.Info("b2b lead created",
		zap.String("id", lead.ID.Hex()),
		zap.String("funnel_source", lead.FunnelSource()),
		zap.String("device", lead.DeviceType()))

	res := s.tracker.Deliver(ctx, RecordTypeB2BLead, lead.ID.Hex(), s.normalizer.ForB2BLead(*lead, rc))
	return newCreateResult(lead, res), nil
}

func (s *leadService) GetB2BLead(ctx context.Context, id string) (*model.B2BLead, error) {
	return s.b2bLeads.FindByID(ctx, id)
}

func (s *leadService) ListB2BLeads(ctx context.Context, q model.ListQuery) (model.Page[model.B2BLead], error) {
	q.SearchFields = b2bLeadSearchFields
	return s.b2bLeads.Find(ctx, q)
}

func (s *leadService) UpdateB2BLead(ctx context.Context, id string, upd model.B2BLeadUpdate) (*model.B2BLead, error) {
	if err := s.validate.Struct(upd); err != nil {
		return nil, apperror.FromValidator(err)
	}
	fields := patchFields(upd.Status, upd.Priority, upd.Notes, upd.AssignedTo)
	if len(fields) == 0 {
		return nil, apperror.NewValidation("no fields to update")
	}
	return s.b2bLeads.Update(ctx, id, fields)
}

func (s *leadService) DeleteB2BLead(ctx context.Context, id string) error {
	return s.b2bLeads.Delete(ctx, id)
}

func patchFields(status, priority, notes, assignedTo *string) map[string]any {
	fields := map[string]any{}
	if status != nil {
		fields["status"] = *status
	}
	if priority != nil {
		fields["priority"] = *priority
	}
	if notes != nil {
		fields["notes"] = *notes
	}
	if assignedTo != nil {
		fields["assignedTo"] = strings.TrimSpace(*assignedTo)
	}
	return fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
