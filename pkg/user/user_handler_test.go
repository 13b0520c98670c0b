package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(uid string, username string) (string, error) {
	return "token-" + uid, nil
}

func setupHandler(t *testing.T) (*Handler, *UserServiceImpl) {
	service, _, _ := setupService(t)
	return NewHandler(service, stubTokenIssuer{}), service
}

func TestHandler_Register(t *testing.T) {
	t.Run("should create user", func(t *testing.T) {
		handler, _ := setupHandler(t)
		body := `{"username":"alice","email":"alice@example.com","password":"secret-password","password2":"secret-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Register(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var dto UserDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "alice", dto.Username)
		assert.NotEmpty(t, dto.Uid)
	})

	t.Run("should return 400 on password mismatch", func(t *testing.T) {
		handler, _ := setupHandler(t)
		body := `{"username":"alice","email":"alice@example.com","password":"secret-password","password2":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should return 409 when username taken", func(t *testing.T) {
		handler, service := setupHandler(t)
		registerUser(t, service, "alice")
		body := `{"username":"alice","email":"x@example.com","password":"secret-password","password2":"secret-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Register(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	handler, service := setupHandler(t)
	alice := registerUser(t, service, "alice")

	t.Run("should return token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/user/login",
			strings.NewReader(`{"username":"alice","password":"secret-password"}`))
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var dto TokenDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "token-"+alice.Uid, dto.Token)
		assert.Equal(t, "alice", dto.User.Username)
	})

	t.Run("should return 401 on wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/user/login",
			strings.NewReader(`{"username":"alice","password":"nope"}`))
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHandler_CurrentUser(t *testing.T) {
	handler, service := setupHandler(t)
	alice := registerUser(t, service, "alice")

	t.Run("should return the user from context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req = req.WithContext(WithUser(req.Context(), alice))
		rr := httptest.NewRecorder()

		handler.CurrentUser(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"username":"alice"`)
	})

	t.Run("should return 401 without user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		rr := httptest.NewRecorder()

		handler.CurrentUser(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHandler_IsUsernameAvailable(t *testing.T) {
	handler, service := setupHandler(t)
	registerUser(t, service, "alice")

	req := httptest.NewRequest(http.MethodGet, "/api/user/name-availability?username=alice", nil)
	rr := httptest.NewRecorder()
	handler.IsUsernameAvailable(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"available":false}`, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/user/name-availability", nil)
	rr = httptest.NewRecorder()
	handler.IsUsernameAvailable(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Photo(t *testing.T) {
	handler, service := setupHandler(t)
	alice := registerUser(t, service, "alice")
	ctx := WithUser(context.Background(), alice)

	// given
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngImage(t, 300, 300))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// when
	req := httptest.NewRequest(http.MethodPut, "/api/user/current/photo", &body).WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	handler.UploadPhoto(rr, req)

	// then
	require.Equal(t, http.StatusOK, rr.Code)

	router := mux.NewRouter()
	router.HandleFunc("/api/user/{userUid}/photo", handler.GetPhoto).Methods("GET")
	req = httptest.NewRequest(http.MethodGet, "/api/user/"+alice.Uid+"/photo", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Body.Bytes())

	req = httptest.NewRequest(http.MethodGet, "/api/user/unknown/photo", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
