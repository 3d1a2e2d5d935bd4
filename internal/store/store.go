// Package store holds the graduates and invitations collections.
//
// The in-memory slices are authoritative while the process runs; every
// mutation rewrites the full snapshot of the touched collection before it
// returns. A failed write rolls the in-memory change back, so an operation
// either happens completely or not at all.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"checkin/entity"
	"checkin/internal/storage"
	"checkin/lib/clock"
	"checkin/lib/sl"
)

const (
	keyGraduates   = "graduates"
	keyInvitations = "invitations"
)

var (
	ErrNotFound    = errors.New("invitation not found")
	ErrAlreadyUsed = errors.New("invitation already used")
)

type Store struct {
	storage     storage.Storage
	log         *slog.Logger
	now         clock.Clock
	mu          sync.RWMutex // single writer for both collections
	graduates   []entity.Graduate
	invitations []entity.Invitation
	codes       map[string]int // scan code -> index in invitations
}

func New(s storage.Storage, log *slog.Logger) *Store {
	return &Store{
		storage: s,
		log:     log.With(sl.Module("store")),
		now:     clock.UTC,
		codes:   make(map[string]int),
	}
}

// SetClock replaces the time source used for created_at and used_at
func (s *Store) SetClock(c clock.Clock) {
	s.now = c
}

// Load reads both snapshots. A missing or unreadable snapshot leaves that
// collection empty; it is logged and never returned as an error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.graduates = nil
	s.invitations = nil
	if err := s.load(ctx, keyGraduates, &s.graduates); err != nil {
		s.log.With(slog.String("key", keyGraduates)).Warn("snapshot not loaded", sl.Err(err))
		s.graduates = nil
	}
	if err := s.load(ctx, keyInvitations, &s.invitations); err != nil {
		s.log.With(slog.String("key", keyInvitations)).Warn("snapshot not loaded", sl.Err(err))
		s.invitations = nil
	}
	s.reindex()

	s.log.With(
		slog.Int("graduates", len(s.graduates)),
		slog.Int("invitations", len(s.invitations)),
	).Info("store loaded")
}

func (s *Store) load(ctx context.Context, key string, v interface{}) error {
	data, err := s.storage.Load(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

func (s *Store) reindex() {
	s.codes = make(map[string]int, len(s.invitations))
	for i, inv := range s.invitations {
		s.codes[inv.Code] = i
	}
}

func (s *Store) persist(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err = s.storage.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// RegisterGraduate appends a new graduate. Empty fields are accepted here;
// required fields are enforced by the request layer.
func (s *Store) RegisterGraduate(ctx context.Context, name, course, email, phone string) (entity.Graduate, error) {
	graduate := entity.Graduate{
		Id:        uuid.NewString(),
		Name:      name,
		Course:    course,
		Email:     email,
		Phone:     phone,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := append(s.graduates[:len(s.graduates):len(s.graduates)], graduate)
	if err := s.persist(ctx, keyGraduates, updated); err != nil {
		return entity.Graduate{}, err
	}
	s.graduates = updated

	s.log.With(
		slog.String("id", graduate.Id),
		slog.String("name", graduate.Name),
	).Debug("graduate registered")
	return graduate, nil
}

// IssueInvitation appends a new active invitation with a fresh scan code.
// graduateID is not checked; a dangling reference shows up later as an
// absent graduate.
func (s *Store) IssueInvitation(ctx context.Context, graduateID, name, email string, kind entity.InvitationKind) (entity.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitation := entity.Invitation{
		Id:         uuid.NewString(),
		GraduateId: graduateID,
		Name:       name,
		Email:      email,
		Kind:       kind,
		Code:       s.newCode(),
		Status:     entity.StatusActive,
		CreatedAt:  s.now(),
	}

	updated := append(s.invitations[:len(s.invitations):len(s.invitations)], invitation)
	if err := s.persist(ctx, keyInvitations, updated); err != nil {
		return entity.Invitation{}, err
	}
	s.invitations = updated
	s.codes[invitation.Code] = len(updated) - 1

	s.log.With(
		slog.String("id", invitation.Id),
		slog.String("graduate_id", graduateID),
		slog.String("kind", string(kind)),
	).Debug("invitation issued")
	return invitation, nil
}

// newCode returns a random code not used by any invitation; must hold mu
func (s *Store) newCode() string {
	for {
		code := uuid.NewString()
		if _, exists := s.codes[code]; !exists {
			return code
		}
	}
}

// MarkUsed moves an active invitation to used. The check and the write
// happen under one lock, so concurrent calls for the same invitation
// succeed at most once; later calls get ErrAlreadyUsed.
func (s *Store) MarkUsed(ctx context.Context, invitationID string) (entity.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(invitationID)
	if idx < 0 {
		return entity.Invitation{}, ErrNotFound
	}
	if s.invitations[idx].Status != entity.StatusActive {
		return s.invitations[idx], ErrAlreadyUsed
	}

	updated := make([]entity.Invitation, len(s.invitations))
	copy(updated, s.invitations)
	usedAt := s.now()
	updated[idx].Status = entity.StatusUsed
	updated[idx].UsedAt = &usedAt

	if err := s.persist(ctx, keyInvitations, updated); err != nil {
		return entity.Invitation{}, err
	}
	s.invitations = updated
	return updated[idx], nil
}

func (s *Store) indexOf(invitationID string) int {
	for i := range s.invitations {
		if s.invitations[i].Id == invitationID {
			return i
		}
	}
	return -1
}

func (s *Store) ListGraduates() []entity.Graduate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Graduate, len(s.graduates))
	copy(out, s.graduates)
	return out
}

func (s *Store) ListInvitations() []entity.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Invitation, len(s.invitations))
	copy(out, s.invitations)
	return out
}

func (s *Store) FindGraduate(id string) (entity.Graduate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.graduates {
		if g.Id == id {
			return g, true
		}
	}
	return entity.Graduate{}, false
}

func (s *Store) FindInvitation(id string) (entity.Invitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Invitation{}, false
	}
	return s.invitations[idx], true
}

func (s *Store) FindInvitationByCode(code string) (entity.Invitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.codes[code]
	if !ok {
		return entity.Invitation{}, false
	}
	return s.invitations[idx], true
}

// InvitationsByGraduate returns the invitations issued for one graduate
// in issuance order
func (s *Store) InvitationsByGraduate(graduateID string) []entity.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Invitation
	for _, inv := range s.invitations {
		if inv.GraduateId == graduateID {
			out = append(out, inv)
		}
	}
	return out
}

// FilterInvitations applies a search term and a status filter to the
// invitation list
func (s *Store) FilterInvitations(filter entity.InvitationFilter) []entity.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]string, len(s.graduates))
	for _, g := range s.graduates {
		names[g.Id] = g.Name
	}
	term := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]entity.Invitation, 0, len(s.invitations))
	for _, inv := range s.invitations {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(inv.Name), term) &&
			!strings.Contains(strings.ToLower(names[inv.GraduateId]), term) {
			continue
		}
		out = append(out, inv)
	}
	return out
}
