package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"checkin/entity"
	"checkin/internal/qr"
	"checkin/internal/stats"
	"checkin/internal/store"
	"checkin/internal/validation"
	"checkin/lib/sl"
)

var ErrNotFound = errors.New("not found")

type AuthService interface {
	Login(username, password string) (*entity.User, error)
	UserByToken(token string) (*entity.User, error)
	Logout(token string)
}

type Renderer interface {
	Render(payload string) ([]byte, error)
}

type Decoder interface {
	Decode(r io.Reader) (string, error)
}

// Notifier is told about every validation outcome, e.g. the Telegram bot
type Notifier interface {
	NotifyValidation(view entity.ValidationView)
}

type Core struct {
	store    *store.Store
	engine   *validation.Engine
	auth     AuthService
	renderer Renderer
	decoder  Decoder
	notifier Notifier
	log      *slog.Logger
}

func New(s *store.Store, log *slog.Logger) *Core {
	if s == nil {
		panic("store is nil")
	}
	return &Core{
		store:  s,
		engine: validation.New(s, log),
		log:    log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) SetRenderer(r Renderer) {
	c.renderer = r
}

func (c *Core) SetDecoder(d Decoder) {
	c.decoder = d
}

func (c *Core) SetNotifier(n Notifier) {
	c.notifier = n
}

func (c *Core) AuthenticateByToken(token string) (*entity.User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.UserByToken(token)
}

func (c *Core) Login(username, password string) (*entity.User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.Login(username, password)
}

func (c *Core) Logout(token string) {
	if c.auth != nil {
		c.auth.Logout(token)
	}
}

func (c *Core) RegisterGraduate(ctx context.Context, req *entity.GraduateRequest) (*entity.Graduate, error) {
	g, err := c.store.RegisterGraduate(ctx, req.Name, req.Course, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Core) Graduates() []entity.Graduate {
	return c.store.ListGraduates()
}

func (c *Core) Graduate(id string) (*entity.Graduate, error) {
	g, ok := c.store.FindGraduate(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (c *Core) GraduateInvitations(id string) ([]entity.Invitation, error) {
	if _, ok := c.store.FindGraduate(id); !ok {
		return nil, ErrNotFound
	}
	return c.store.InvitationsByGraduate(id), nil
}

// IssueInvitation stores the invitation and renders its QR image. A render
// failure does not undo the issuance; the error text is returned with the
// invitation instead of the image.
func (c *Core) IssueInvitation(ctx context.Context, req *entity.InvitationRequest) (*entity.IssuedInvitation, error) {
	inv, err := c.store.IssueInvitation(ctx, req.GraduateId, req.Name, req.Email, req.Kind)
	if err != nil {
		return nil, err
	}
	issued := &entity.IssuedInvitation{Invitation: inv}

	png, err := c.render(inv.Code)
	if err != nil {
		c.log.With(slog.String("invitation_id", inv.Id)).Warn("qr render", sl.Err(err))
		issued.QRError = err.Error()
		return issued, nil
	}
	issued.QRCode = png
	return issued, nil
}

func (c *Core) render(code string) ([]byte, error) {
	if c.renderer == nil {
		return nil, fmt.Errorf("%w: renderer not connected", qr.ErrUnavailable)
	}
	return c.renderer.Render(code)
}

func (c *Core) Invitations(filter entity.InvitationFilter) []entity.Invitation {
	return c.store.FilterInvitations(filter)
}

func (c *Core) Invitation(id string) (*entity.Invitation, error) {
	inv, ok := c.store.FindInvitation(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

// InvitationQR renders the QR image of an existing invitation again
func (c *Core) InvitationQR(id string) ([]byte, *entity.Invitation, error) {
	inv, ok := c.store.FindInvitation(id)
	if !ok {
		return nil, nil, ErrNotFound
	}
	png, err := c.render(inv.Code)
	if err != nil {
		return nil, nil, err
	}
	return png, &inv, nil
}

func (c *Core) Validate(ctx context.Context, code string) (*entity.ValidationView, error) {
	result, err := c.engine.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	view := validation.View(result)
	if c.notifier != nil {
		c.notifier.NotifyValidation(view)
	}
	return &view, nil
}

// ValidateResult is Validate for callers that work with the result variants
func (c *Core) ValidateResult(ctx context.Context, code string) (validation.Result, error) {
	result, err := c.engine.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	if c.notifier != nil {
		c.notifier.NotifyValidation(validation.View(result))
	}
	return result, nil
}

// ValidateImage reads the code from an uploaded image and validates it;
// an image without a readable code is an error, not a validation result
func (c *Core) ValidateImage(ctx context.Context, r io.Reader) (*entity.ValidationView, error) {
	if c.decoder == nil {
		return nil, fmt.Errorf("%w: decoder not connected", qr.ErrUnavailable)
	}
	code, err := c.decoder.Decode(r)
	if err != nil {
		return nil, err
	}
	return c.Validate(ctx, code)
}

func (c *Core) Stats() entity.Stats {
	return stats.Compute(c.store.ListGraduates(), c.store.ListInvitations())
}
