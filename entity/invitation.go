package entity

import (
	"net/http"
	"strings"
	"time"

	"checkin/lib/validate"
)

// InvitationKind is the ticket class of an invitation, fixed at issuance.
type InvitationKind string

const (
	KindFull InvitationKind = "full" // full-price entry
	KindHalf InvitationKind = "half" // half-price entry
)

// InvitationStatus moves from active to used exactly once, on validation.
type InvitationStatus string

const (
	StatusActive InvitationStatus = "active"
	StatusUsed   InvitationStatus = "used"
)

// Invitation is a single-use admission record tied to one graduate.
// Code is the scan payload rendered into the QR image and the only key
// used during validation.
type Invitation struct {
	Id         string           `json:"id" bson:"id"`
	GraduateId string           `json:"graduate_id" bson:"graduate_id"`
	Name       string           `json:"name" bson:"name"`
	Email      string           `json:"email,omitempty" bson:"email,omitempty"`
	Kind       InvitationKind   `json:"kind" bson:"kind"`
	Code       string           `json:"code" bson:"code"`
	Status     InvitationStatus `json:"status" bson:"status"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at"`
	UsedAt     *time.Time       `json:"used_at,omitempty" bson:"used_at,omitempty"`
}

func (i *Invitation) IsUsed() bool {
	return i.Status == StatusUsed
}

// FileName is the suggested download name of the invitation QR image.
func (i *Invitation) FileName() string {
	name := strings.Join(strings.Fields(i.Name), "-")
	if name == "" {
		name = i.Id
	}
	return "invitation-" + name + ".png"
}

type InvitationRequest struct {
	GraduateId string         `json:"graduate_id" validate:"required"`
	Name       string         `json:"name" validate:"required"`
	Email      string         `json:"email" validate:"omitempty,email"`
	Kind       InvitationKind `json:"kind" validate:"required,oneof=full half"`
}

func (i *InvitationRequest) Bind(_ *http.Request) error {
	return validate.Struct(i)
}

// InvitationFilter narrows an invitation listing. Search is matched
// case-insensitively against the guest name and the graduate name;
// an empty Status matches every invitation.
type InvitationFilter struct {
	Search string
	Status InvitationStatus
}

// IssuedInvitation is returned after issuance together with the rendered
// QR image; QRError is set instead when rendering failed.
type IssuedInvitation struct {
	Invitation Invitation `json:"invitation"`
	QRCode     []byte     `json:"qr_code,omitempty"`
	QRError    string     `json:"qr_error,omitempty"`
}
