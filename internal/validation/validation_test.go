package validation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin/entity"
	"checkin/internal/storage"
	"checkin/internal/store"
)

func setup(t *testing.T) (*Engine, *store.Store, *storage.Memory) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := storage.NewMemory()
	s := store.New(mem, log)
	s.Load(context.Background())
	return New(s, log), s, mem
}

func TestValidate_Scenarios(t *testing.T) {
	engine, s, _ := setup(t)
	ctx := context.Background()
	first := time.Date(2026, 12, 10, 19, 30, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return first })

	// A: issue an invitation for a registered graduate
	g1, err := s.RegisterGraduate(ctx, "Ana", "CS", "", "")
	require.NoError(t, err)
	inv, err := s.IssueInvitation(ctx, g1.Id, "Bruno", "", entity.KindFull)
	require.NoError(t, err)
	require.Equal(t, entity.StatusActive, inv.Status)
	require.NotEmpty(t, inv.Code)
	require.Nil(t, inv.UsedAt)

	// B: first scan grants entry
	res, err := engine.Validate(ctx, inv.Code)
	require.NoError(t, err)
	granted, ok := res.(Granted)
	require.True(t, ok, "expected Granted, got %T", res)
	assert.True(t, res.Valid())
	assert.Equal(t, entity.SeveritySuccess, res.Severity())
	assert.Contains(t, res.Message(), "entry granted")
	assert.Equal(t, entity.StatusUsed, granted.Invitation.Status)
	require.NotNil(t, granted.Invitation.UsedAt)
	require.NotNil(t, granted.Graduate)
	assert.Equal(t, "Ana", granted.Graduate.Name)

	// C: second scan is rejected and used_at stays put
	s.SetClock(func() time.Time { return first.Add(time.Minute) })
	res, err = engine.Validate(ctx, inv.Code)
	require.NoError(t, err)
	used, ok := res.(AlreadyUsed)
	require.True(t, ok, "expected AlreadyUsed, got %T", res)
	assert.False(t, res.Valid())
	assert.Equal(t, entity.SeverityWarning, res.Severity())
	assert.Contains(t, res.Message(), "already been used")
	require.NotNil(t, used.Invitation.UsedAt)
	assert.Equal(t, first, *used.Invitation.UsedAt)

	// D: unknown code
	res, err = engine.Validate(ctx, "nonexistent-token")
	require.NoError(t, err)
	assert.IsType(t, Invalid{}, res)
	assert.False(t, res.Valid())
	assert.Equal(t, entity.SeverityError, res.Severity())
	assert.Nil(t, View(res).Invitation)
}

func TestValidate_UnknownOnEmptyStore(t *testing.T) {
	engine, _, _ := setup(t)
	res, err := engine.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Invalid{Code: ""}, res)
}

func TestValidate_DanglingGraduate(t *testing.T) {
	engine, s, _ := setup(t)
	ctx := context.Background()
	inv, err := s.IssueInvitation(ctx, "missing", "Guest", "", entity.KindHalf)
	require.NoError(t, err)

	res, err := engine.Validate(ctx, inv.Code)
	require.NoError(t, err)
	granted, ok := res.(Granted)
	require.True(t, ok)
	assert.Nil(t, granted.Graduate)

	res, err = engine.Validate(ctx, inv.Code)
	require.NoError(t, err)
	already, ok := res.(AlreadyUsed)
	require.True(t, ok)
	assert.Nil(t, already.Graduate)
}

func TestValidate_PersistFault(t *testing.T) {
	engine, s, mem := setup(t)
	ctx := context.Background()
	inv, err := s.IssueInvitation(ctx, "g", "Guest", "", entity.KindFull)
	require.NoError(t, err)

	mem.SaveErr = errors.New("write failed")
	_, err = engine.Validate(ctx, inv.Code)
	assert.Error(t, err)

	mem.SaveErr = nil
	res, err := engine.Validate(ctx, inv.Code)
	require.NoError(t, err)
	assert.IsType(t, Granted{}, res)
}

func TestValidate_ConcurrentScans(t *testing.T) {
	engine, s, _ := setup(t)
	ctx := context.Background()
	inv, err := s.IssueInvitation(ctx, "g", "Guest", "", entity.KindFull)
	require.NoError(t, err)

	const scans = 16
	results := make([]Result, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := engine.Validate(ctx, inv.Code)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, r := range results {
		switch r.(type) {
		case Granted:
			granted++
		case AlreadyUsed:
		default:
			t.Fatalf("unexpected result %T", r)
		}
	}
	assert.Equal(t, 1, granted)
}

func TestView(t *testing.T) {
	inv := entity.Invitation{Id: "i1", Status: entity.StatusUsed}
	g := &entity.Graduate{Id: "g1", Name: "Ana"}

	view := View(AlreadyUsed{Invitation: inv, Graduate: g})
	assert.False(t, view.Valid)
	assert.Equal(t, entity.SeverityWarning, view.Type)
	require.NotNil(t, view.Invitation)
	assert.Equal(t, "i1", view.Invitation.Id)
	assert.Equal(t, g, view.Graduate)

	view = View(Invalid{Code: "x"})
	assert.Equal(t, entity.SeverityError, view.Type)
	assert.Nil(t, view.Invitation)
	assert.Nil(t, view.Graduate)
}
