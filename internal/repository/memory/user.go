package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type userRepositoryImpl struct {
	*Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{Store: store}
}

func (r *userRepositoryImpl) find(fn func(user.User) bool) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexOf(r.users, fn); i >= 0 {
		return r.users[i], nil
	}
	return user.User{}, repository.ErrNotFound
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]user.User(nil), r.users...), nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if newUser.ID == "" {
		newUser.ID = newID()
	}
	if indexOf(r.users, func(u user.User) bool {
		return u.ID == newUser.ID || u.Username == newUser.Username || u.Email == newUser.Email
	}) >= 0 {
		return user.User{}, repository.ErrConflict
	}
	r.users = append(r.users, newUser)
	return newUser, nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.users, func(existing user.User) bool { return existing.ID == u.ID })
	if i < 0 {
		return user.User{}, repository.ErrNotFound
	}
	r.users[i] = u
	return u, nil
}
