package entity

import (
	"net/http"

	"checkin/lib/validate"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type ValidateRequest struct {
	Code string `json:"code" validate:"required"`
}

func (v *ValidateRequest) Bind(_ *http.Request) error {
	return validate.Struct(v)
}

// ValidationView is the flat representation of a validation outcome
// shown at the entrance.
type ValidationView struct {
	Valid      bool        `json:"valid"`
	Message    string      `json:"message"`
	Type       Severity    `json:"type"`
	Invitation *Invitation `json:"invitation,omitempty"`
	Graduate   *Graduate   `json:"graduate,omitempty"`
}
