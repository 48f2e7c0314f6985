package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tthornvik/task-api/internal/api/shared"
	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/mocks"
	"github.com/tthornvik/task-api/internal/service"
)

type userHandlerFixture struct {
	handler    *UserHandler
	service    *service.UserService
	userStore  *mocks.MockUserStore
	taskStore  *mocks.MockTaskStore
	tokenStore *mocks.MockTokenStore
	notifier   *mocks.MockNotifier
	dbMock     sqlmock.Sqlmock
}

func newUserHandlerFixture(t *testing.T) *userHandlerFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	f := &userHandlerFixture{
		userStore:  mocks.NewMockUserStore(),
		taskStore:  mocks.NewMockTaskStore(),
		tokenStore: mocks.NewMockTokenStore(),
		notifier:   &mocks.MockNotifier{},
		dbMock:     dbMock,
	}

	f.service = service.NewUserService(service.UserServiceConfig{
		DB:         db,
		UserStore:  f.userStore,
		TaskStore:  f.taskStore,
		TokenStore: f.tokenStore,
		JWTService: &mocks.MockJWTService{Token: "session-token"},
		Hasher:     &mocks.MockPasswordHasher{},
		Verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
		Notifier:   f.notifier,
	})
	f.handler = NewUserHandler(f.service, nil)
	return f
}

func (f *userHandlerFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Ada Lovelace", email, "correct-horse", nil)
	require.NoError(t, err)
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	f.userStore.AddUser(user)
	return user
}

// authed stamps the context values the auth middleware would set.
func authed(req *http.Request, userID uuid.UUID, token string) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)
	return req.WithContext(ctx)
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestUserHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates the account", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		req := jsonRequest(t, http.MethodPost, "/users", map[string]any{
			"name":     "Ada Lovelace",
			"email":    "ada@example.com",
			"password": "correct-horse",
			"age":      30,
		})
		rec := httptest.NewRecorder()
		f.handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[map[string]json.RawMessage](t, rec)
		assert.Contains(t, body, "user")
		assert.Contains(t, body, "token")
		assert.NotContains(t, string(body["user"]), "password",
			"user payload must never carry credentials")
	})

	t.Run("rejects a forbidden password", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := jsonRequest(t, http.MethodPost, "/users", map[string]any{
			"name":     "Ada Lovelace",
			"email":    "ada@example.com",
			"password": "password123",
		})
		rec := httptest.NewRecorder()
		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing email", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := jsonRequest(t, http.MethodPost, "/users", map[string]any{
			"name":     "Ada Lovelace",
			"password": "correct-horse",
		})
		rec := httptest.NewRecorder()
		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email yields 409", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		f.seedUser(t, "ada@example.com")
		f.dbMock.ExpectBegin()
		f.dbMock.ExpectRollback()

		req := jsonRequest(t, http.MethodPost, "/users", map[string]any{
			"name":     "Other Ada",
			"email":    "ada@example.com",
			"password": "correct-horse",
		})
		rec := httptest.NewRecorder()
		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUserHandlerLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns user and token", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		f.seedUser(t, "ada@example.com")

		req := jsonRequest(t, http.MethodPost, "/users/login", map[string]any{
			"email":    "ada@example.com",
			"password": "correct-horse",
		})
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[AuthResponse](t, rec)
		assert.Equal(t, "session-token", body.Token)
		assert.Equal(t, "ada@example.com", body.User.Email)
	})

	t.Run("unknown email yields uniform 401", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := jsonRequest(t, http.MethodPost, "/users/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "correct-horse",
		})
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Unable to login", body.Error)
	})
}

func TestUserHandlerSessions(t *testing.T) {
	t.Parallel()

	t.Run("logout revokes the presented session only", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")
		ctx := context.Background()
		require.NoError(t, f.tokenStore.Add(ctx, user.ID, "token-a"))
		require.NoError(t, f.tokenStore.Add(ctx, user.ID, "token-b"))

		req := authed(httptest.NewRequest(http.MethodPost, "/users/logout", nil),
			user.ID, "token-a")
		rec := httptest.NewRecorder()
		f.handler.Logout(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		gone, err := f.tokenStore.Exists(ctx, user.ID, "token-a")
		require.NoError(t, err)
		assert.False(t, gone)

		kept, err := f.tokenStore.Exists(ctx, user.ID, "token-b")
		require.NoError(t, err)
		assert.True(t, kept)
	})

	t.Run("logout all reports revoked session count", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")
		ctx := context.Background()
		require.NoError(t, f.tokenStore.Add(ctx, user.ID, "token-a"))
		require.NoError(t, f.tokenStore.Add(ctx, user.ID, "token-b"))

		req := authed(httptest.NewRequest(http.MethodPost, "/users/logoutAll", nil),
			user.ID, "token-a")
		rec := httptest.NewRecorder()
		f.handler.LogoutAll(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[LogoutAllResponse](t, rec)
		assert.Equal(t, int64(2), body.SessionsRevoked)
	})

	t.Run("missing context yields 401", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		rec := httptest.NewRecorder()
		f.handler.Logout(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandlerProfile(t *testing.T) {
	t.Parallel()

	t.Run("get me returns the sanitized profile", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		req := authed(httptest.NewRequest(http.MethodGet, "/users/me", nil),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.GetMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")

		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "ada@example.com", body["email"])
	})

	t.Run("patch updates whitelisted fields", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		req := authed(jsonRequest(t, http.MethodPatch, "/users/me", map[string]any{
			"name": "Ada King",
			"age":  36,
		}), user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UpdateMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "Ada King", body["name"])
		assert.Equal(t, float64(36), body["age"])
	})

	t.Run("patch with unknown field yields 400", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		req := authed(jsonRequest(t, http.MethodPatch, "/users/me", map[string]any{
			"height": 170,
		}), user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		stored, err := f.userStore.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", stored.Name, "rejected update must not be applied")
	})

	t.Run("delete me removes account and returns it", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")
		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		task, err := domain.NewTask(user.ID, "close the books", false)
		require.NoError(t, err)
		f.taskStore.AddTask(task)

		req := authed(httptest.NewRequest(http.MethodDelete, "/users/me", nil),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.DeleteMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Empty(t, f.taskStore.Tasks, "owned tasks must be cascaded")
	})
}

// avatarPNG encodes a small image for upload tests.
func avatarPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUserHandlerAvatar(t *testing.T) {
	t.Parallel()

	t.Run("upload then public fetch round-trips as PNG", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		upload := authed(multipartUpload(t, "avatar", avatarPNG(t, 300, 200)),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UploadAvatar(rec, upload)
		require.Equal(t, http.StatusOK, rec.Code)

		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		fetch := httptest.NewRequest(http.MethodGet, "/users/"+user.ID.String()+"/avatar", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, fetch)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, format, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 250, img.Bounds().Dx())
		assert.Equal(t, 250, img.Bounds().Dy())
	})

	t.Run("rejects wrong form field", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		req := authed(multipartUpload(t, "photo", avatarPNG(t, 64, 64)),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		req := authed(multipartUpload(t, "avatar", []byte("plain text")),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing avatar yields 404", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		req := httptest.NewRequest(http.MethodGet, "/users/"+user.ID.String()+"/avatar", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid user id in path yields 400", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/avatar", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete clears the avatar", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		user := f.seedUser(t, "ada@example.com")

		upload := authed(multipartUpload(t, "avatar", avatarPNG(t, 64, 64)),
			user.ID, "session-token")
		rec := httptest.NewRecorder()
		f.handler.UploadAvatar(rec, upload)
		require.Equal(t, http.StatusOK, rec.Code)

		del := authed(httptest.NewRequest(http.MethodDelete, "/users/me/avatar", nil),
			user.ID, "session-token")
		rec = httptest.NewRecorder()
		f.handler.DeleteAvatar(rec, del)
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := f.service.GetAvatar(context.Background(), user.ID)
		assert.Error(t, err)
	})
}
