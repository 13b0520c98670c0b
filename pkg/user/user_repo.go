package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateProfile(ctx context.Context, userId int, profile Profile) (User, error)
	UpdatePasswordHash(ctx context.Context, userId int, hash string) error
	UpdatePhotoKey(ctx context.Context, userId int, key string) error
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const selectUser = `SELECT id, uid, username, email, password_hash, COALESCE(photo_key, '') FROM users`

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, email, password_hash, photo_key) VALUES ($1, $2, $3, $4, NULLIF($5, ''))
				RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query, user.Uid, user.Username, user.Email, user.PasswordHash, user.PhotoKey).Scan(&id)
	if err != nil {
		if uniqueErr := uniqueConstraintError(err); uniqueErr != nil {
			return 0, uniqueErr
		}
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE uid = $1`, uid)
}

func (u *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE username = $1`, username)
}

func (u *UserRepoImpl) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := u.db.QueryRow(ctx, query, arg).
		Scan(&user.Id, &user.Uid, &user.Username, &user.Email, &user.PasswordHash, &user.PhotoKey)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user %v not found", arg)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateProfile(ctx context.Context, userId int, profile Profile) (User, error) {
	query := `UPDATE users SET username = $1, email = $2 WHERE id = $3`
	result, err := u.db.Exec(ctx, query, profile.Username, profile.Email, userId)
	if err != nil {
		if uniqueErr := uniqueConstraintError(err); uniqueErr != nil {
			return User{}, uniqueErr
		}
		log.Errorf("failed to update user: %v", err)
		return User{}, err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of updating user")
		return User{}, ErrUserNotFound
	}
	return u.GetUser(ctx, userId)
}

func (u *UserRepoImpl) UpdatePasswordHash(ctx context.Context, userId int, hash string) error {
	return u.updateColumn(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userId)
}

func (u *UserRepoImpl) UpdatePhotoKey(ctx context.Context, userId int, key string) error {
	return u.updateColumn(ctx, `UPDATE users SET photo_key = NULLIF($1, '') WHERE id = $2`, key, userId)
}

func (u *UserRepoImpl) updateColumn(ctx context.Context, query string, value string, userId int) error {
	result, err := u.db.Exec(ctx, query, value, userId)
	if err != nil {
		err = fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (u *UserRepoImpl) DeleteUser(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := u.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of deleting user")
		return ErrUserNotFound
	}
	return nil
}

func (u *UserRepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	rows, err := u.db.Query(ctx, selectUser+` ORDER BY username`)
	if err != nil {
		log.Errorf("failed to get users: %v", err)
		return nil, err
	}
	defer rows.Close()
	users := make([]User, 0, 10)
	for rows.Next() {
		var user User
		err := rows.Scan(&user.Id, &user.Uid, &user.Username, &user.Email, &user.PasswordHash, &user.PhotoKey)
		if err != nil {
			log.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return users, nil
}

func (u *UserRepoImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = $1`
	var count int
	err := u.db.QueryRow(ctx, query, username).Scan(&count)
	if err != nil {
		log.Errorf("failed to check username availability: %v", err)
		return false, err
	}
	return count == 0, nil
}

func uniqueConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	case "users_uid_key":
		return fmt.Errorf("%w: duplicated uid", ErrUserDataInvalid)
	}
	return nil
}
