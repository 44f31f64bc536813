package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/moodtrack/moodtrack-api/internal/middleware"
	"github.com/moodtrack/moodtrack-api/internal/model"
	"github.com/moodtrack/moodtrack-api/internal/payload"
	"github.com/moodtrack/moodtrack-api/internal/repository"
	"github.com/moodtrack/moodtrack-api/internal/usecase"
	"github.com/moodtrack/moodtrack-api/shared/auth"
	"github.com/moodtrack/moodtrack-api/shared/validation"
)

const testSecret = "test-secret-at-least-32-bytes-long"

// fakeUserRepository backs the full handler stack in tests, reproducing the
// mongo error surface the usecases expect.
type fakeUserRepository struct {
	users []*model.User
}

func (f *fakeUserRepository) findByID(id string) *model.User {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepository) findByEmail(email string) *model.User {
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepository) remove(id string) {
	for i, u := range f.users {
		if u.ID.Hex() == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return
		}
	}
}

func publicCopy(u *model.User) *model.User {
	cp := *u
	cp.PasswordHash = ""
	cp.MoodHistory = append([]model.MoodEntry(nil), u.MoodHistory...)
	return &cp
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.findByEmail(user.Email) != nil {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.MoodHistory == nil {
		user.MoodHistory = []model.MoodEntry{}
	}

	stored := *user
	f.users = append(f.users, &stored)

	return user, nil
}

func (f *fakeUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	u := f.findByID(id)
	if u == nil {
		return nil, mongo.ErrNoDocuments
	}
	return publicCopy(u), nil
}

func (f *fakeUserRepository) GetUserCredentialsByEmail(_ context.Context, email string) (*model.User, error) {
	u := f.findByEmail(email)
	if u == nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	u := f.findByID(id)
	if u == nil {
		return nil, mongo.ErrNoDocuments
	}

	if params.Email != nil {
		if other := f.findByEmail(*params.Email); other != nil && other.ID != u.ID {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
		u.Email = *params.Email
	}
	if params.Name != nil {
		u.Name = *params.Name
	}
	if params.PasswordHash != nil {
		u.PasswordHash = *params.PasswordHash
	}
	u.UpdatedAt = time.Now()

	return publicCopy(u), nil
}

func (f *fakeUserRepository) AppendMood(
	_ context.Context,
	id string,
	entry model.MoodEntry,
) (*model.User, error) {
	u := f.findByID(id)
	if u == nil {
		return nil, mongo.ErrNoDocuments
	}

	u.MoodHistory = append(u.MoodHistory, entry)
	u.UpdatedAt = time.Now()

	return publicCopy(u), nil
}

func (f *fakeUserRepository) ListUsers(
	_ context.Context,
	params repository.FilterUsersParams,
) ([]*model.User, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 10
	}

	var out []*model.User
	for i, u := range f.users {
		if uint64(i) < params.Offset {
			continue
		}
		if uint64(len(out)) >= limit {
			break
		}
		out = append(out, publicCopy(u))
	}

	return out, nil
}

type testEnv struct {
	router  http.Handler
	repo    *fakeUserRepository
	jwtAuth auth.JWTAuthenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := &fakeUserRepository{}
	logger := zerolog.Nop()
	jwtAuth := auth.NewJWTAuthenticator(testSecret, "moodtrack-api", time.Hour)

	validator, err := validation.New()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	cookies := SessionCookies{Domain: "localhost", Secure: false, MaxAge: time.Hour}

	authHandler := NewAuthHandler(usecase.NewAuthUsecase(repo, jwtAuth, nil, &logger), validator, cookies, &logger)
	moodHandler := NewMoodHandler(usecase.NewMoodUsecase(repo), validator, &logger)
	userHandler := NewUserHandler(usecase.NewUserUsecase(repo), &logger)

	router := NewRouter(
		&logger,
		[]string{"http://localhost:3000"},
		&jwtAuth,
		repo,
		authHandler,
		moodHandler,
		userHandler,
	)

	return &testEnv{router: router, repo: repo, jwtAuth: jwtAuth}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, name, email, password string) (payload.UserResponse, *http.Cookie) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var user payload.UserResponse
	decodeBody(t, rec, &user)

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("register did not set the session cookie")
	}

	return user, cookie
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp payload.MessageResponse
	decodeBody(t, rec, &resp)
	return resp.Message
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "API is running..." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	user, cookie := env.register(t, "Ana", "ana@x.com", "secret1")
	if user.Name != "Ana" || user.Email != "ana@x.com" || user.IsAdmin {
		t.Fatalf("unexpected user response: %+v", user)
	}
	if user.ID == "" {
		t.Fatal("expected id in response")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	if cookie.MaxAge <= 0 {
		t.Fatalf("expected positive cookie MaxAge, got %d", cookie.MaxAge)
	}

	// Same email again fails, regardless of case.
	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Other","email":"ANA@X.COM","password":"secret2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "user already exists" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"ana@x.com","password":"secret1"}`},
		{"bad email", `{"name":"Ana","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"name":"Ana","email":"ana@x.com","password":"abc"}`},
		{"not json", `not json at all`},
	}

	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/api/auth/register", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	registered, _ := env.register(t, "Ana", "ana@x.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@x.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var user payload.UserResponse
	decodeBody(t, rec, &user)
	if user.ID != registered.ID {
		t.Fatalf("login returned wrong user: %+v", user)
	}
	if sessionCookie(rec) == nil {
		t.Fatal("login did not set the session cookie")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ana", "ana@x.com", "secret1")

	wrongPassword := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@x.com","password":"wrong1"}`)
	unknownEmail := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@x.com","password":"secret1"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
	if got := messageOf(t, wrongPassword); got != "invalid email or password" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	// Logout without a session still succeeds.
	rec := env.do(t, http.MethodPost, "/api/auth/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("logout did not write the session cookie")
	}
	if cookie.Value != "" {
		t.Fatalf("expected empty cookie value, got %q", cookie.Value)
	}
	if cookie.MaxAge >= 0 && !cookie.Expires.Before(time.Now()) {
		t.Fatalf("expected expired cookie, got MaxAge=%d Expires=%s", cookie.MaxAge, cookie.Expires)
	}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	registered, cookie := env.register(t, "Ana", "ana@x.com", "secret1")

	rec := env.do(t, http.MethodGet, "/api/auth/profile", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var user payload.UserResponse
	decodeBody(t, rec, &user)
	if user.ID != registered.ID || user.Email != "ana@x.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}
}

func TestProfileRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.register(t, "Ana", "ana@x.com", "secret1")

	// No cookie at all.
	rec := env.do(t, http.MethodGet, "/api/auth/profile", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "not authorized, no token" {
		t.Fatalf("unexpected message: %q", got)
	}

	// Tampered token.
	tampered := &http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"}
	rec = env.do(t, http.MethodGet, "/api/auth/profile", "", tampered)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "not authorized, token failed" {
		t.Fatalf("unexpected message: %q", got)
	}

	// Expired token, signed with the right secret.
	expiredAuth := auth.NewJWTAuthenticator(testSecret, "moodtrack-api", -time.Minute)
	expiredToken, err := expiredAuth.IssueSessionToken(env.repo.users[0].ID.Hex())
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}
	rec = env.do(t, http.MethodGet, "/api/auth/profile", "", &http.Cookie{Name: cookie.Name, Value: expiredToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestProfileWithDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	registered, cookie := env.register(t, "Ana", "ana@x.com", "secret1")

	env.repo.remove(registered.ID)

	rec := env.do(t, http.MethodGet, "/api/auth/profile", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "not authorized, token failed" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	registered, cookie := env.register(t, "Ana", "ana@x.com", "secret1")

	rec := env.do(t, http.MethodPut, "/api/auth/profile",
		`{"name":"Ana Maria","email":"ana.maria@x.com"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var user payload.UserResponse
	decodeBody(t, rec, &user)
	if user.Name != "Ana Maria" || user.Email != "ana.maria@x.com" || user.ID != registered.ID {
		t.Fatalf("unexpected updated profile: %+v", user)
	}

	// Password change takes effect on the next login.
	rec = env.do(t, http.MethodPut, "/api/auth/profile", `{"password":"swordfish"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana.maria@x.com","password":"swordfish"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password returned %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana.maria@x.com","password":"secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with old password returned %d", rec.Code)
	}
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ana", "ana@x.com", "secret1")
	_, cookie := env.register(t, "Bea", "bea@x.com", "secret2")

	rec := env.do(t, http.MethodPut, "/api/auth/profile", `{"email":"ana@x.com"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "user already exists" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestMoodRoutes(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.register(t, "Ana", "ana@x.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/mood", `{"mood":"happy"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/mood", `{"mood":"calm"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/mood", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var history []payload.MoodEntryResponse
	decodeBody(t, rec, &history)
	if len(history) != 2 || history[0].Mood != "happy" || history[1].Mood != "calm" {
		t.Fatalf("unexpected history: %+v", history)
	}

	// Empty mood is rejected.
	rec = env.do(t, http.MethodPost, "/api/mood", `{"mood":""}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty mood, got %d", rec.Code)
	}

	// And the whole group requires a session.
	rec = env.do(t, http.MethodGet, "/api/mood", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	registered, cookie := env.register(t, "Ana", "ana@x.com", "secret1")
	env.register(t, "Bea", "bea@x.com", "secret2")

	rec := env.do(t, http.MethodGet, "/api/users", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-admin, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "not authorized as admin" {
		t.Fatalf("unexpected message: %q", got)
	}

	env.repo.findByID(registered.ID).IsAdmin = true

	rec = env.do(t, http.MethodGet, "/api/users", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}

	var users []payload.UserResponse
	decodeBody(t, rec, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
