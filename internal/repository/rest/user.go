package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type userRepositoryImpl struct {
	*Client
}

func NewUserRepository(client *Client) user.UserRepository {
	return &userRepositoryImpl{Client: client}
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	record, err := get[accountRecord](ctx, r.Client, CollectionAccounts, id)
	if err != nil {
		return user.User{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *userRepositoryImpl) findBy(ctx context.Context, field, value string) (user.User, error) {
	record, err := first[accountRecord](ctx, r.Client, CollectionAccounts, url.Values{field: {value}})
	if err != nil {
		return user.User{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	records, err := list[accountRecord](ctx, r.Client, CollectionAccounts, nil)
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(records))
	for _, record := range records {
		users = append(users, record.toDomain(r.loc))
	}
	return users, nil
}

// Create refuses a username or email another account already holds. The
// check and the insert are separate calls, so two racing registrations can
// still both pass it.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	for field, value := range map[string]string{"username": newUser.Username, "email": newUser.Email} {
		_, err := r.findBy(ctx, field, value)
		if err == nil {
			return user.User{}, fmt.Errorf("account %s %q: %w", field, value, repository.ErrConflict)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return user.User{}, err
		}
	}

	if newUser.ID == "" {
		newUser.ID = newID()
	}
	record, err := create(ctx, r.Client, CollectionAccounts, toAccountRecord(newUser))
	if err != nil {
		return user.User{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	record, err := replace(ctx, r.Client, CollectionAccounts, u.ID, toAccountRecord(u))
	if err != nil {
		return user.User{}, err
	}
	return record.toDomain(r.loc), nil
}
