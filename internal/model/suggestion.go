package model

import (
	"encoding/json"
	"time"
)

// FieldType identifies an input field with autocomplete support.
type FieldType string

const (
	FieldBusinessName FieldType = "businessName"
	FieldSector       FieldType = "sector"
	FieldCountry      FieldType = "country"
	FieldRegion       FieldType = "region"
	FieldCity         FieldType = "city"
	FieldStreet       FieldType = "street"
)

var AllFieldTypes = []FieldType{
	FieldBusinessName, FieldSector, FieldCountry, FieldRegion, FieldCity, FieldStreet,
}

func (f FieldType) Valid() bool {
	switch f {
	case FieldBusinessName, FieldSector, FieldCountry, FieldRegion, FieldCity, FieldStreet:
		return true
	}
	return false
}

type SuggestionType string

const (
	// SuggestionVerified comes from the curated active record set.
	SuggestionVerified SuggestionType = "verified"
	// SuggestionUserSubmitted is community-entered and pending moderation.
	SuggestionUserSubmitted SuggestionType = "userSubmitted"
)

// AutocompleteSuggestion is a system-offered completion for a free-text
// field. Type is authoritative from the gateway; it is never inferred
// client-side from metadata presence.
type AutocompleteSuggestion struct {
	Value    string          `json:"value"` // canonical form
	Label    string          `json:"label"` // display form
	Type     SuggestionType  `json:"type"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Metadata shapes differ per field type, so each consumer decodes the
// variant it expects instead of sharing an open bag.

// SectorMetadata rides on sector suggestions.
type SectorMetadata struct {
	BusinessCount int `json:"businessCount"`
}

// PlaceMetadata rides on country/region/city/street suggestions.
type PlaceMetadata struct {
	Region      string `json:"region,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// BusinessNameMetadata rides on business-name suggestions.
type BusinessNameMetadata struct {
	Sector string `json:"sector,omitempty"`
	City   string `json:"city,omitempty"`
}

func (s AutocompleteSuggestion) SectorMetadata() (*SectorMetadata, error) {
	if len(s.Metadata) == 0 {
		return nil, nil
	}
	var m SectorMetadata
	if err := json.Unmarshal(s.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s AutocompleteSuggestion) PlaceMetadata() (*PlaceMetadata, error) {
	if len(s.Metadata) == 0 {
		return nil, nil
	}
	var m PlaceMetadata
	if err := json.Unmarshal(s.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s AutocompleteSuggestion) BusinessNameMetadata() (*BusinessNameMetadata, error) {
	if len(s.Metadata) == 0 {
		return nil, nil
	}
	var m BusinessNameMetadata
	if err := json.Unmarshal(s.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// UserSubmittedEntry is a moderation-queue candidate: a free-typed field
// value that matched no known suggestion. Lifecycle is owned by the
// moderation backend once posted.
type UserSubmittedEntry struct {
	FieldType    FieldType        `json:"fieldType"`
	EnteredValue string           `json:"enteredValue"`
	Context      string           `json:"context"`
	UserID       string           `json:"userId"`
	SessionID    string           `json:"sessionId"`
	Timestamp    time.Time        `json:"timestamp"`
	Status       SubmissionStatus `json:"status,omitempty"`
}
