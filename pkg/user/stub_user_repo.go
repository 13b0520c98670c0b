package user

import (
	"context"
	"sort"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}}
}

func (s *StubUserRepository) CreateUser(_ context.Context, user User) (int, error) {
	for _, existing := range s.data {
		if existing.Username == user.Username {
			return 0, ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return 0, ErrEmailTaken
		}
	}
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubUserRepository) GetUser(_ context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(_ context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) GetUserByUsername(_ context.Context, username string) (User, error) {
	for _, user := range s.data {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateProfile(_ context.Context, userId int, profile Profile) (User, error) {
	user, ok := s.data[userId]
	if !ok {
		return User{}, ErrUserNotFound
	}
	for id, existing := range s.data {
		if id == userId {
			continue
		}
		if existing.Username == profile.Username {
			return User{}, ErrUsernameTaken
		}
		if existing.Email == profile.Email {
			return User{}, ErrEmailTaken
		}
	}
	user.Username = profile.Username
	user.Email = profile.Email
	s.data[userId] = user
	return user, nil
}

func (s *StubUserRepository) UpdatePasswordHash(_ context.Context, userId int, hash string) error {
	user, ok := s.data[userId]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = hash
	s.data[userId] = user
	return nil
}

func (s *StubUserRepository) UpdatePhotoKey(_ context.Context, userId int, key string) error {
	user, ok := s.data[userId]
	if !ok {
		return ErrUserNotFound
	}
	user.PhotoKey = key
	s.data[userId] = user
	return nil
}

func (s *StubUserRepository) DeleteUser(_ context.Context, id int) error {
	if _, ok := s.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubUserRepository) GetAllUsers(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(s.data))
	for _, user := range s.data {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *StubUserRepository) IsUsernameAvailable(_ context.Context, username string) (bool, error) {
	for _, user := range s.data {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}
