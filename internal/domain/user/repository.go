package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) (User, error)
}
