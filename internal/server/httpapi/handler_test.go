package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/server/auth"
	"taskboard/internal/server/models"
	"taskboard/internal/server/services"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeAuthService struct {
	registerOut *services.AuthResult
	registerErr error

	loginOut *services.AuthResult
	loginErr error

	refreshOut *services.AuthResult
	refreshErr error

	logoutOut bool
	logoutErr error

	logoutAllOut int64
	logoutAllErr error
	logoutAllArg string

	validateOut *models.User
	validateErr error
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, fullName, deviceInfo, ip string) (*services.AuthResult, error) {
	return f.registerOut, f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password, deviceInfo, ip string) (*services.AuthResult, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAuthService) Refresh(ctx context.Context, rawToken, deviceInfo, ip string) (*services.AuthResult, error) {
	return f.refreshOut, f.refreshErr
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) (bool, error) {
	return f.logoutOut, f.logoutErr
}

func (f *fakeAuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	f.logoutAllArg = userID
	return f.logoutAllOut, f.logoutAllErr
}

func (f *fakeAuthService) ValidateByID(ctx context.Context, userID string) (*models.User, error) {
	return f.validateOut, f.validateErr
}

func newTestRouter(t *testing.T, svc *fakeAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, testSecret, nopLogger{}).NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testUser() *models.User {
	return &models.User{
		ID:        "u1",
		Email:     "alice@x.com",
		FullName:  "Alice",
		Role:      models.DefaultRole,
		AvatarURL: models.DefaultAvatarURL,
		IsActive:  true,
	}
}

func testResult() *services.AuthResult {
	return &services.AuthResult{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         testUser(),
	}
}

func TestRegister_Created(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{registerOut: testResult()})

	w := doJSON(t, r, http.MethodPost, "/api/auth/register",
		`{"email":"alice@x.com","password":"Secret123","full_name":"Alice"}`, "")

	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.Equal(t, models.DefaultRole, resp.User.Role)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "is_active")
}

func TestRegister_Conflict(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{registerErr: common.ErrorAlreadyExists})

	w := doJSON(t, r, http.MethodPost, "/api/auth/register",
		`{"email":"alice@x.com","password":"Secret123","full_name":"Alice"}`, "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_BadBody(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing fields", body: `{"email":"alice@x.com"}`},
		{name: "bad email", body: `{"email":"nope","password":"Secret123","full_name":"A"}`},
		{name: "short password", body: `{"email":"alice@x.com","password":"short","full_name":"A"}`},
		{name: "not json", body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_OK(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{loginOut: testResult()})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@x.com","password":"Secret123"}`, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.User.ID)
}

func TestLogin_UnauthorizedShape(t *testing.T) {
	// Whatever the internal reason, the body must be identical.
	r := newTestRouter(t, &fakeAuthService{loginErr: common.ErrorUnauthorized})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@x.com","password":"wrong"}`, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestLogin_InternalError(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{loginErr: common.ErrorInternal})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@x.com","password":"Secret123"}`, "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRefresh_OK(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{refreshOut: testResult()})

	w := doJSON(t, r, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"raw"}`, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "refresh-token", resp.RefreshToken)
}

func TestRefresh_UnauthorizedShape(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{refreshErr: common.ErrorUnauthorized})

	w := doJSON(t, r, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"raw"}`, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid refresh token"}`, w.Body.String())
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name        string
		revoked     bool
		wantMessage string
	}{
		{name: "revoked", revoked: true, wantMessage: "Logged out successfully"},
		{name: "unknown token", revoked: false, wantMessage: "Token not found or already revoked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeAuthService{logoutOut: tt.revoked})

			w := doJSON(t, r, http.MethodPost, "/api/auth/logout",
				`{"refresh_token":"raw"}`, "")

			require.Equal(t, http.StatusOK, w.Code)

			var resp logoutResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.revoked, resp.Revoked)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestLogoutAll_RequiresAuth(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{logoutAllOut: 2})

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout-all", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutAll_OK(t *testing.T) {
	svc := &fakeAuthService{logoutAllOut: 2, validateOut: testUser()}
	r := newTestRouter(t, svc)

	tok, err := auth.GenerateToken("u1", "alice@x.com", models.DefaultRole, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout-all", "", tok)

	require.Equal(t, http.StatusOK, w.Code)

	var resp logoutAllResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.RevokedCount)
	assert.Equal(t, "u1", svc.logoutAllArg, "must revoke the authenticated subject's sessions")
}

func TestMe_OK(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{validateOut: testUser()})

	tok, err := auth.GenerateToken("u1", "alice@x.com", models.DefaultRole, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", "", tok)

	require.Equal(t, http.StatusOK, w.Code)

	var resp userPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice@x.com", resp.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthRequired_Rejections(t *testing.T) {
	staleTok, err := auth.GenerateToken("u1", "alice@x.com", models.DefaultRole, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	wrongKeyTok, err := auth.GenerateToken("u1", "alice@x.com", models.DefaultRole, []byte("other"), time.Hour)
	require.NoError(t, err)
	goodTok, err := auth.GenerateToken("u1", "alice@x.com", models.DefaultRole, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		bearer string
		svc    *fakeAuthService
	}{
		{name: "no header", bearer: "", svc: &fakeAuthService{validateOut: testUser()}},
		{name: "garbage token", bearer: "garbage", svc: &fakeAuthService{validateOut: testUser()}},
		{name: "expired token", bearer: staleTok, svc: &fakeAuthService{validateOut: testUser()}},
		{name: "wrong key", bearer: wrongKeyTok, svc: &fakeAuthService{validateOut: testUser()}},
		{name: "subject gone or inactive", bearer: goodTok, svc: &fakeAuthService{validateOut: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.svc)
			w := doJSON(t, r, http.MethodGet, "/api/auth/me", "", tt.bearer)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
