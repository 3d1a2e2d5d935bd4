package entity

import (
	"net/http"
	"time"

	"checkin/lib/validate"
)

// Graduate is the honoree an invitation is issued on behalf of.
// Records are never edited or removed once registered.
type Graduate struct {
	Id        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Course    string    `json:"course" bson:"course"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type GraduateRequest struct {
	Name   string `json:"name" validate:"required"`
	Course string `json:"course" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty"`
}

func (g *GraduateRequest) Bind(_ *http.Request) error {
	return validate.Struct(g)
}
