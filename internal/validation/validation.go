// Package validation decides admission for a scanned code.
package validation

import (
	"context"
	"errors"
	"log/slog"

	"checkin/entity"
	"checkin/internal/store"
	"checkin/lib/sl"
)

type Store interface {
	FindInvitationByCode(code string) (entity.Invitation, bool)
	FindGraduate(id string) (entity.Graduate, bool)
	MarkUsed(ctx context.Context, invitationID string) (entity.Invitation, error)
}

type Engine struct {
	store Store
	log   *slog.Logger
}

func New(s Store, log *slog.Logger) *Engine {
	return &Engine{
		store: s,
		log:   log.With(sl.Module("validation")),
	}
}

// Validate looks up the invitation carrying code and applies the
// active -> used transition. Unknown and already used codes are results,
// not errors; err is set only when the used state could not be persisted.
func (e *Engine) Validate(ctx context.Context, code string) (Result, error) {
	log := e.log.With(sl.Code(code))

	invitation, ok := e.store.FindInvitationByCode(code)
	if !ok {
		log.Info("invalid code")
		return Invalid{Code: code}, nil
	}
	log = log.With(slog.String("invitation_id", invitation.Id))

	if invitation.IsUsed() {
		log.Info("invitation already used")
		return AlreadyUsed{Invitation: invitation, Graduate: e.graduate(invitation)}, nil
	}

	used, err := e.store.MarkUsed(ctx, invitation.Id)
	switch {
	case errors.Is(err, store.ErrAlreadyUsed):
		// another scan of the same code won the race
		log.Info("invitation already used")
		return AlreadyUsed{Invitation: used, Graduate: e.graduate(used)}, nil
	case errors.Is(err, store.ErrNotFound):
		log.Warn("invitation disappeared")
		return Invalid{Code: code}, nil
	case err != nil:
		log.Error("mark used", sl.Err(err))
		return nil, err
	}

	log.Info("entry granted")
	return Granted{Invitation: used, Graduate: e.graduate(used)}, nil
}

func (e *Engine) graduate(invitation entity.Invitation) *entity.Graduate {
	g, ok := e.store.FindGraduate(invitation.GraduateId)
	if !ok {
		return nil
	}
	return &g
}
