package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/co2tracker/co2tracker/internal/storage"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 150
)

type Service interface {
	Register(ctx context.Context, registration Registration) (User, error)
	Authenticate(ctx context.Context, username string, password string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateProfile(ctx context.Context, profile Profile) (User, error)
	ChangePassword(ctx context.Context, oldPassword string, newPassword string) error
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	StoreUserPhoto(ctx context.Context, photo []byte) error
	GetUserPhoto(ctx context.Context, id int) ([]byte, error)
	GetCurrentUserPhoto(ctx context.Context) ([]byte, error)
	DeleteUserPhoto(ctx context.Context) error
}

type UserServiceImpl struct {
	repo   Repo
	photos storage.PhotoStorage
}

func NewUserService(repo Repo, photos storage.PhotoStorage) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, photos: photos}
}

func (u *UserServiceImpl) Register(ctx context.Context, registration Registration) (User, error) {
	username := strings.TrimSpace(registration.Username)
	email := strings.TrimSpace(registration.Email)
	if err := validateProfile(Profile{Username: username, Email: email}); err != nil {
		return User{}, err
	}
	if registration.Password != registration.Password2 {
		return User{}, ErrPasswordMismatch
	}
	if err := validatePassword(registration.Password); err != nil {
		return User{}, err
	}

	available, err := u.repo.IsUsernameAvailable(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !available {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Uid:          uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	log.Infof("User %s registered", username)
	return user, nil
}

func (u *UserServiceImpl) Authenticate(ctx context.Context, username string, password string) (User, error) {
	user, err := u.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateProfile(ctx context.Context, profile Profile) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	profile.Username = strings.TrimSpace(profile.Username)
	profile.Email = strings.TrimSpace(profile.Email)
	if err := validateProfile(profile); err != nil {
		return User{}, err
	}
	return u.repo.UpdateProfile(ctx, userId, profile)
}

func (u *UserServiceImpl) ChangePassword(ctx context.Context, oldPassword string, newPassword string) error {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.repo.UpdatePasswordHash(ctx, current.Id, string(hash))
}

func (u *UserServiceImpl) DeleteUser(ctx context.Context, id int) error {
	user, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.PhotoKey != "" {
		if err := u.photos.Delete(ctx, user.PhotoKey); err != nil {
			log.Warnf("failed to delete photo of user %d: %v", id, err)
		}
	}
	return u.repo.DeleteUser(ctx, id)
}

func (u *UserServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return u.repo.GetAllUsers(ctx)
}

func (u *UserServiceImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	return u.repo.IsUsernameAvailable(ctx, strings.TrimSpace(username))
}

func (u *UserServiceImpl) StoreUserPhoto(ctx context.Context, photo []byte) error {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	resized, err := thumbnail(photo)
	if err != nil {
		return err
	}

	key := photoKey(current.Uid)
	if err := u.photos.Put(ctx, key, resized); err != nil {
		return err
	}
	return u.repo.UpdatePhotoKey(ctx, current.Id, key)
}

func (u *UserServiceImpl) GetUserPhoto(ctx context.Context, id int) ([]byte, error) {
	user, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.PhotoKey == "" {
		return nil, nil
	}
	return u.photos.Get(ctx, user.PhotoKey)
}

func (u *UserServiceImpl) GetCurrentUserPhoto(ctx context.Context) ([]byte, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUserPhoto(ctx, userId)
}

func (u *UserServiceImpl) DeleteUserPhoto(ctx context.Context) error {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	if current.PhotoKey == "" {
		return nil
	}
	if err := u.photos.Delete(ctx, current.PhotoKey); err != nil {
		return err
	}
	return u.repo.UpdatePhotoKey(ctx, current.Id, "")
}

func photoKey(uid string) string {
	return "profile_pics/" + uid + ".jpg"
}

func validateProfile(profile Profile) error {
	if profile.Username == "" {
		return fmt.Errorf("%w: username is required", ErrUserDataInvalid)
	}
	if len(profile.Username) > maxUsernameLength {
		return fmt.Errorf("%w: username is longer than %d characters", ErrUserDataInvalid, maxUsernameLength)
	}
	if _, err := mail.ParseAddress(profile.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrUserDataInvalid)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrUserDataInvalid, minPasswordLength)
	}
	return nil
}
