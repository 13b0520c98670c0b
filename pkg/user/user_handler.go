package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/co2tracker/co2tracker/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	HasPhoto bool   `json:"hasPhoto"`
}

type RegisterDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type ProfileDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type TokenIssuer interface {
	Issue(uid string, username string) (string, error)
}

type Handler struct {
	userService Service
	tokens      TokenIssuer
}

func NewHandler(userService Service, tokens TokenIssuer) *Handler {
	return &Handler{
		userService: userService,
		tokens:      tokens,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags User
// @Accept json
// @Produce json
// @Param user body RegisterDTO true "Registration"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Username or email taken"
// @Router /api/user/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Registering user")

	var registration RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	created, err := h.userService.Register(r.Context(), Registration{
		Username:  registration.Username,
		Email:     registration.Email,
		Password:  registration.Password,
		Password2: registration.Password2,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Tracef("Registered user: %s", created.Uid)

	rest.WriteJSON(w, http.StatusCreated, userToDTO(&created))
}

// Login godoc
// @Summary Log in
// @Description Exchange username and password for a bearer token
// @Tags User
// @Accept json
// @Produce json
// @Param credentials body LoginDTO true "Credentials"
// @Success 200 {object} TokenDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Logging in")

	var credentials LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	authenticated, err := h.userService.Authenticate(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	token, err := h.tokens.Issue(authenticated.Uid, authenticated.Username)
	if err != nil {
		log.Errorf("failed to issue token: %v", err)
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusOK, TokenDTO{Token: token, User: userToDTO(&authenticated)})
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "User Not Found"
// @Router /api/user/current [get]
// @Security Bearer
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting current user")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, userToDTO(&currentUser))
}

// UpdateProfile godoc
// @Summary Update current user
// @Description Change the username and email of the current user
// @Tags User
// @Accept json
// @Produce json
// @Param profile body ProfileDTO true "Profile"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user/current [put]
// @Security Bearer
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Updating user")

	var profile ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), Profile{Username: profile.Username, Email: profile.Email})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Debug("Updated user: ", updated.Uid)

	rest.WriteJSON(w, http.StatusOK, userToDTO(&updated))
}

// ChangePassword godoc
// @Summary Change password
// @Tags User
// @Accept json
// @Param passwords body ChangePasswordDTO true "Old and new password"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {object} rest.ErrorResponse "Old password does not match"
// @Router /api/user/current/password [put]
// @Security Bearer
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Changing password")

	var passwords ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&passwords); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), passwords.OldPassword, passwords.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IsUsernameAvailable godoc
// @Summary Check username availability
// @Tags User
// @Produce json
// @Param username query string true "Username to check"
// @Success 200 {object} object{available=bool}
// @Failure 400 {object} rest.ErrorResponse "Username is required"
// @Router /api/user/name-availability [get]
func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Checking if username is available")

	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		rest.WriteError(w, http.StatusBadRequest, "Username is required", "")
		return
	}

	isAvailable, err := h.userService.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"available": isAvailable})
}

// UploadPhoto godoc
// @Summary Upload user photo
// @Description Upload a JPEG or PNG profile photo for the current user (max 3MB), stored as a 200x200 thumbnail
// @Tags User
// @Accept multipart/form-data
// @Param photo formData file true "User photo"
// @Success 200 "OK"
// @Failure 400 {object} rest.ErrorResponse "Image too large or invalid"
// @Router /api/user/current/photo [put]
// @Security Bearer
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Uploading user photo")

	r.Body = http.MaxBytesReader(w, r.Body, 3<<20)
	err := r.ParseMultipartForm(3 << 20)
	if err != nil {
		log.Debugf("File is too large: %v", err)
		rest.WriteError(w, http.StatusBadRequest, "Image is too large",
			"Maximum size is 3MB. Please try again with a smaller image.")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Photo is required", err.Error())
		return
	}
	defer file.Close()
	log.Debugf("Uploaded File: %s (%d bytes)", header.Filename, header.Size)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.userService.StoreUserPhoto(r.Context(), fileBytes); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetPhoto godoc
// @Summary Get user photo
// @Description Retrieve a user's profile photo. If userUid is provided, gets that user's photo, otherwise gets current user's photo
// @Tags User
// @Produce image/jpeg
// @Param userUid path string false "User UID (optional)"
// @Success 200 {file} image/jpeg
// @Failure 404 {string} string "No photo"
// @Router /api/user/current/photo [get]
// @Router /api/user/{userUid}/photo [get]
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting user photo")

	var photo []byte
	var err error
	if userUid := mux.Vars(r)["userUid"]; userUid != "" {
		var owner User
		owner, err = h.userService.GetUserByUid(r.Context(), userUid)
		if err == nil {
			photo, err = h.userService.GetUserPhoto(r.Context(), owner.Id)
		}
	} else {
		photo, err = h.userService.GetCurrentUserPhoto(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if photo == nil {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(photo); err != nil {
		log.Errorf("failed to write photo: %v", err)
	}
}

// DeletePhoto godoc
// @Summary Delete user photo
// @Tags User
// @Success 204 "No Content"
// @Router /api/user/current/photo [delete]
// @Security Bearer
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	log.Trace("Deleting user photo")

	if err := h.userService.DeleteUserPhoto(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserDataInvalid), errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrInvalidPhoto):
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		rest.WriteError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, ErrInvalidCredentials):
		rest.WriteError(w, http.StatusUnauthorized, err.Error(), "")
	case errors.Is(err, ErrNoUser):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func userToDTO(user *User) UserDTO {
	return UserDTO{
		Uid:      user.Uid,
		Username: user.Username,
		Email:    user.Email,
		HasPhoto: user.PhotoKey != "",
	}
}
