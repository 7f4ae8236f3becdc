package model

import "strings"

// EventName identifies a conversion event. Custom names are allowed.
type EventName string

const (
	EventPageView             EventName = "PageView"
	EventLead                 EventName = "Lead"
	EventCompleteRegistration EventName = "CompleteRegistration"
	EventPurchase             EventName = "Purchase"
	EventContact              EventName = "Contact"
	EventSchedule             EventName = "Schedule"
	EventSubmitApplication    EventName = "SubmitApplication"
	EventAddToCart            EventName = "AddToCart"
	EventInitiateCheckout     EventName = "InitiateCheckout"
)

// ActionSource tells the platform where the conversion happened.
type ActionSource string

const (
	ActionWebsite         ActionSource = "website"
	ActionApp             ActionSource = "app"
	ActionPhoneCall       ActionSource = "phone_call"
	ActionChat            ActionSource = "chat"
	ActionPhysicalStore   ActionSource = "physical_store"
	ActionSystemGenerated ActionSource = "system_generated"
	ActionOther           ActionSource = "other"
)

// Valid reports whether a is one of the known action sources.
func (a ActionSource) Valid() bool {
	switch a {
	case ActionWebsite, ActionApp, ActionPhoneCall, ActionChat, ActionPhysicalStore, ActionSystemGenerated, ActionOther:
		return true
	}
	return false
}

// UserData holds plaintext contact and connection fields.
// The conversions client hashes the PII fields before transmission.
type UserData struct {
	Email       string
	Phone       string
	FirstName   string
	LastName    string
	City        string
	State       string
	Country     string
	Zip         string
	DateOfBirth string
	Gender      string
	ExternalID  string

	ClientIP  string
	UserAgent string
	FBC       string
	FBP       string
	GCLID     string
}

// CustomData is the business payload attached to an event.
type CustomData struct {
	ContentName     string
	ContentCategory string
	ContentIDs      []string
	Currency        string
	Value           float64
	Extra           map[string]string
}

// CanonicalEvent is the platform-agnostic event envelope.
type CanonicalEvent struct {
	EventName    EventName
	EventID      string
	EventTime    int64
	SourceURL    string
	ActionSource ActionSource
	UserData     UserData
	CustomData   CustomData
}

// TrackRequest is a browser-originated event forwarded server side.
type TrackRequest struct {
	EventName       string            `json:"eventName" validate:"required,max=100"`
	EventID         string            `json:"eventId" validate:"max=100"`
	EventTime       int64             `json:"eventTime" validate:"gte=0"`
	SourceURL       string            `json:"sourceUrl" validate:"max=2048"`
	ActionSource    string            `json:"actionSource" validate:"omitempty,oneof=website app phone_call chat physical_store system_generated other"`
	Email           string            `json:"email" validate:"omitempty,email"`
	Phone           string            `json:"phone" validate:"omitempty,phone"`
	Name            string            `json:"name" validate:"max=120"`
	ContentName     string            `json:"contentName" validate:"max=200"`
	ContentCategory string            `json:"contentCategory" validate:"max=100"`
	ContentIDs      []string          `json:"contentIds" validate:"max=50"`
	Value           *float64          `json:"value" validate:"omitempty,gte=0"`
	Currency        string            `json:"currency" validate:"omitempty,len=3"`
	Custom          map[string]string `json:"custom"`
	Attribution     map[string]string `json:"attribution"`
}

// Normalize trims the text fields, lowercases the email and uppercases the
// currency code ahead of validation.
func (r TrackRequest) Normalize() TrackRequest {
	r.EventName = strings.TrimSpace(r.EventName)
	r.EventID = strings.TrimSpace(r.EventID)
	r.SourceURL = strings.TrimSpace(r.SourceURL)
	r.ActionSource = strings.TrimSpace(r.ActionSource)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Name = strings.TrimSpace(r.Name)
	r.ContentName = strings.TrimSpace(r.ContentName)
	r.ContentCategory = strings.TrimSpace(r.ContentCategory)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	return r
}
