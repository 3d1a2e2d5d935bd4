package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin/entity"
	"checkin/impl/auth"
	"checkin/impl/core"
	"checkin/internal/qr"
	"checkin/internal/storage"
	"checkin/internal/store"
)

type envelope struct {
	Data          json.RawMessage `json:"data"`
	Success       bool            `json:"success"`
	StatusMessage string          `json:"status_message"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.New(storage.NewMemory(), log)
	s.Load(context.Background())

	c := core.New(s, log)
	c.SetAuthService(auth.New("admin", "admin123"))
	c.SetRenderer(qr.NewRenderer(0))
	c.SetDecoder(qr.NewDecoder())

	return &testServer{t: t, router: NewRouter(log, c)}
}

func (ts *testServer) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	return ts.serve(req)
}

func (ts *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	var env envelope
	if rec.Header().Get("Content-Type") != "image/png" {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (ts *testServer) login() {
	ts.t.Helper()
	rec, env := ts.do(http.MethodPost, "/v1/login", entity.LoginRequest{Username: "admin", Password: "admin123"})
	require.Equal(ts.t, http.StatusOK, rec.Code)
	var user entity.User
	require.NoError(ts.t, json.Unmarshal(env.Data, &user))
	require.NotEmpty(ts.t, user.Token)
	ts.token = user.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestAPI_Login(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(http.MethodPost, "/v1/login", entity.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = ts.do(http.MethodPost, "/v1/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.login()
	rec, _ = ts.do(http.MethodPost, "/v1/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(http.MethodGet, "/v1/graduates", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	ts.token = "forged"
	rec, _ = ts.do(http.MethodGet, "/v1/graduates", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CheckInFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	rec, env := ts.do(http.MethodPost, "/v1/graduates", entity.GraduateRequest{Name: "Ana", Course: "CS"})
	require.Equal(t, http.StatusCreated, rec.Code)
	g := decode[entity.Graduate](t, env)

	rec, _ = ts.do(http.MethodPost, "/v1/invitations", map[string]string{
		"graduate_id": g.Id, "name": "Bruno", "kind": "vip",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = ts.do(http.MethodPost, "/v1/invitations", entity.InvitationRequest{
		GraduateId: g.Id, Name: "Bruno Lima", Kind: entity.KindFull,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	issued := decode[entity.IssuedInvitation](t, env)
	assert.Equal(t, entity.StatusActive, issued.Invitation.Status)
	assert.NotEmpty(t, issued.QRCode)

	rec, _ = ts.do(http.MethodGet, "/v1/invitations/"+issued.Invitation.Id+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "invitation-Bruno-Lima.png")

	rec, env = ts.do(http.MethodPost, "/v1/validate", entity.ValidateRequest{Code: issued.Invitation.Code})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[entity.ValidationView](t, env)
	assert.True(t, view.Valid)
	assert.Equal(t, entity.SeveritySuccess, view.Type)
	require.NotNil(t, view.Graduate)
	assert.Equal(t, "Ana", view.Graduate.Name)

	rec, env = ts.do(http.MethodPost, "/v1/validate", entity.ValidateRequest{Code: issued.Invitation.Code})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[entity.ValidationView](t, env)
	assert.False(t, view.Valid)
	assert.Equal(t, entity.SeverityWarning, view.Type)

	rec, env = ts.do(http.MethodPost, "/v1/validate", entity.ValidateRequest{Code: "nonexistent-token"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[entity.ValidationView](t, env)
	assert.Equal(t, entity.SeverityError, view.Type)
	assert.Nil(t, view.Invitation)

	rec, env = ts.do(http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[entity.Stats](t, env)
	assert.Equal(t, entity.Stats{Graduates: 1, Invitations: 1, Used: 1, Full: 1, Utilization: 100}, stats)

	rec, env = ts.do(http.MethodGet, "/v1/invitations?status=used&q=bruno", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entity.Invitation](t, env), 1)

	rec, _ = ts.do(http.MethodGet, "/v1/invitations?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/graduates/"+g.Id+"/invitations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entity.Invitation](t, env), 1)
}

func TestAPI_ValidateImage(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	_, env := ts.do(http.MethodPost, "/v1/invitations", entity.InvitationRequest{
		GraduateId: "unknown", Name: "Guest", Kind: entity.KindHalf,
	})
	issued := decode[entity.IssuedInvitation](t, env)

	upload := func(content []byte) (*httptest.ResponseRecorder, envelope) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", "scan.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/v1/validate/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+ts.token)
		return ts.serve(req)
	}

	rec, env := upload(issued.QRCode)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[entity.ValidationView](t, env)
	assert.True(t, view.Valid)
	assert.Nil(t, view.Graduate)

	rec, _ = upload([]byte("not an image"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	rec, _ := ts.do(http.MethodGet, "/v1/graduates/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = ts.do(http.MethodGet, "/v1/invitations/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = ts.do(http.MethodGet, "/v1/invitations/missing/qr", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = ts.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
