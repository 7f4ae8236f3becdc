package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document carries the fields every stored record shares.
type Document struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Base exposes the shared fields to generic stores.
func (d *Document) Base() *Document { return d }

// Lead statuses.
const (
	LeadStatusNew         = "New"
	LeadStatusContacted   = "Contacted"
	LeadStatusQualified   = "Qualified"
	LeadStatusApplication = "Application"
	LeadStatusEnrolled    = "Enrolled"
	LeadStatusRejected    = "Rejected"
)

// B2B lead statuses.
const (
	B2BStatusNew         = "New"
	B2BStatusContacted   = "Contacted"
	B2BStatusNegotiation = "Negotiation"
	B2BStatusClosedWon   = "Closed Won"
	B2BStatusClosedLost  = "Closed Lost"
)

// Priorities shared by both lead kinds.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Lead is a student enquiry submitted through a public form.
type Lead struct {
	Document            `bson:",inline"`
	AttributionSnapshot `bson:",inline"`

	Name               string `json:"name" bson:"name"`
	Email              string `json:"email" bson:"email"`
	Phone              string `json:"phone,omitempty" bson:"phone,omitempty"`
	City               string `json:"city,omitempty" bson:"city,omitempty"`
	Country            string `json:"country,omitempty" bson:"country,omitempty"`
	DestinationCountry string `json:"destinationCountry,omitempty" bson:"destinationCountry,omitempty"`
	ProgramType        string `json:"programType,omitempty" bson:"programType,omitempty"`
	Intake             string `json:"intake,omitempty" bson:"intake,omitempty"`
	Message            string `json:"message,omitempty" bson:"message,omitempty"`
	Source             string `json:"source" bson:"source"`
	PageURL            string `json:"pageUrl,omitempty" bson:"pageUrl,omitempty"`

	Status     string `json:"status" bson:"status"`
	Priority   string `json:"priority" bson:"priority"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`

	IPAddress string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// B2BLead is a partnership enquiry from an agency or institution.
type B2BLead struct {
	Document            `bson:",inline"`
	AttributionSnapshot `bson:",inline"`

	CompanyName     string `json:"companyName" bson:"companyName"`
	ContactPerson   string `json:"contactPerson" bson:"contactPerson"`
	Email           string `json:"email" bson:"email"`
	Phone           string `json:"phone,omitempty" bson:"phone,omitempty"`
	Website         string `json:"website,omitempty" bson:"website,omitempty"`
	City            string `json:"city,omitempty" bson:"city,omitempty"`
	Country         string `json:"country,omitempty" bson:"country,omitempty"`
	Industry        string `json:"industry,omitempty" bson:"industry,omitempty"`
	PartnershipType string `json:"partnershipType,omitempty" bson:"partnershipType,omitempty"`
	StudentVolume   int    `json:"studentVolume,omitempty" bson:"studentVolume,omitempty"`
	Message         string `json:"message,omitempty" bson:"message,omitempty"`
	Source          string `json:"source" bson:"source"`
	PageURL         string `json:"pageUrl,omitempty" bson:"pageUrl,omitempty"`

	Status     string `json:"status" bson:"status"`
	Priority   string `json:"priority" bson:"priority"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`

	IPAddress string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// LeadRequest is the public student enquiry payload.
type LeadRequest struct {
	Name               string            `json:"name" validate:"required,max=120"`
	Email              string            `json:"email" validate:"required,email,max=254"`
	Phone              string            `json:"phone" validate:"omitempty,phone"`
	City               string            `json:"city" validate:"max=80"`
	Country            string            `json:"country" validate:"max=80"`
	DestinationCountry string            `json:"destinationCountry" validate:"max=80"`
	ProgramType        string            `json:"programType" validate:"max=80"`
	Intake             string            `json:"intake" validate:"max=40"`
	Message            string            `json:"message" validate:"max=2000"`
	Source             string            `json:"source" validate:"max=80"`
	PageURL            string            `json:"pageUrl" validate:"max=2048"`
	Attribution        map[string]string `json:"attribution"`
}

// B2BLeadRequest is the public partnership enquiry payload.
type B2BLeadRequest struct {
	CompanyName     string            `json:"companyName" validate:"required,max=160"`
	ContactPerson   string            `json:"contactPerson" validate:"required,max=120"`
	Email           string            `json:"email" validate:"required,email,max=254"`
	Phone           string            `json:"phone" validate:"omitempty,phone"`
	Website         string            `json:"website" validate:"omitempty,url,max=2048"`
	City            string            `json:"city" validate:"max=80"`
	Country         string            `json:"country" validate:"max=80"`
	Industry        string            `json:"industry" validate:"max=80"`
	PartnershipType string            `json:"partnershipType" validate:"max=80"`
	StudentVolume   int               `json:"studentVolume" validate:"gte=0"`
	Message         string            `json:"message" validate:"max=2000"`
	Source          string            `json:"source" validate:"max=80"`
	PageURL         string            `json:"pageUrl" validate:"max=2048"`
	Attribution     map[string]string `json:"attribution"`
}

// Normalize trims the text fields and lowercases the email. It runs before
// validation so padded input is judged on its trimmed value.
func (r LeadRequest) Normalize() LeadRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.DestinationCountry = strings.TrimSpace(r.DestinationCountry)
	r.ProgramType = strings.TrimSpace(r.ProgramType)
	r.Intake = strings.TrimSpace(r.Intake)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = strings.TrimSpace(r.Source)
	r.PageURL = strings.TrimSpace(r.PageURL)
	return r
}

func (r B2BLeadRequest) Normalize() B2BLeadRequest {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.ContactPerson = strings.TrimSpace(r.ContactPerson)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Website = strings.TrimSpace(r.Website)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Industry = strings.TrimSpace(r.Industry)
	r.PartnershipType = strings.TrimSpace(r.PartnershipType)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = strings.TrimSpace(r.Source)
	r.PageURL = strings.TrimSpace(r.PageURL)
	return r
}

// NormalizeEmail is the stored form of an address: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LeadUpdate is the admin patch for a student lead.
type LeadUpdate struct {
	Status     *string `json:"status" validate:"omitempty,oneof=New Contacted Qualified Application Enrolled Rejected"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,max=120"`
}

// B2BLeadUpdate is the admin patch for a partnership lead.
type B2BLeadUpdate struct {
	Status     *string `json:"status" validate:"omitempty,oneof=New Contacted Negotiation 'Closed Won' 'Closed Lost'"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,max=120"`
}

// RequestContext is what the HTTP layer knows about the submitting visitor.
type RequestContext struct {
	PageURL   string
	Referrer  string
	ClientIP  string
	UserAgent string
	FBC       string
	FBP       string
}
