package capi

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"eduexpress-backend/internal/model"
)

// HashedUserData is the user_data object as transmitted. Every PII field is a
// SHA-256 hex digest of the normalized value.
type HashedUserData struct {
	Email       []string `json:"em,omitempty"`
	Phone       []string `json:"ph,omitempty"`
	FirstName   string   `json:"fn,omitempty"`
	LastName    string   `json:"ln,omitempty"`
	City        string   `json:"ct,omitempty"`
	State       string   `json:"st,omitempty"`
	Country     string   `json:"country,omitempty"`
	Zip         string   `json:"zp,omitempty"`
	DateOfBirth string   `json:"db,omitempty"`
	Gender      string   `json:"ge,omitempty"`
	ExternalID  []string `json:"external_id,omitempty"`

	ClientIP  string `json:"client_ip_address,omitempty"`
	UserAgent string `json:"client_user_agent,omitempty"`
	FBC       string `json:"fbc,omitempty"`
	FBP       string `json:"fbp,omitempty"`
}

// HashUserData normalizes and hashes the PII fields of ud.
// Connection fields pass through unchanged.
func HashUserData(ud model.UserData) HashedUserData {
	return HashedUserData{
		Email:       hashList(normalizeText(ud.Email)),
		Phone:       hashList(digitsOnly(ud.Phone)),
		FirstName:   hash(normalizeText(ud.FirstName)),
		LastName:    hash(normalizeText(ud.LastName)),
		City:        hash(stripSpaces(normalizeText(ud.City))),
		State:       hash(stripSpaces(normalizeText(ud.State))),
		Country:     hash(normalizeText(ud.Country)),
		Zip:         hash(stripSpaces(normalizeText(ud.Zip))),
		DateOfBirth: hash(digitsOnly(ud.DateOfBirth)),
		Gender:      hash(firstLetter(ud.Gender)),
		ExternalID:  hashList(normalizeText(ud.ExternalID)),

		ClientIP:  strings.TrimSpace(ud.ClientIP),
		UserAgent: ud.UserAgent,
		FBC:       strings.TrimSpace(ud.FBC),
		FBP:       strings.TrimSpace(ud.FBP),
	}
}

func hash(v string) string {
	if v == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

func hashList(v string) []string {
	if h := hash(v); h != "" {
		return []string{h}
	}
	return nil
}

func normalizeText(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func stripSpaces(v string) string {
	return strings.Join(strings.Fields(v), "")
}

func digitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstLetter(v string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(v))
	if !unicode.IsLetter(r) {
		return ""
	}
	return string(unicode.ToLower(r))
}
