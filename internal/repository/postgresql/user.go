package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, username, password_hash, full_name, role, email, account_status,
		position, department, start_date, working_status`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.Email,
		&u.AccountStatus,
		&u.Position,
		&u.Department,
		&u.StartDate,
		&u.WorkingStatus,
	)
	if err != nil {
		return user.User{}, translate(err)
	}
	return u, nil
}

func (r *userRepositoryImpl) getBy(ctx context.Context, column, value string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	return scanUser(q.QueryRow(ctx, query, value))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getBy(ctx, "username", username)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getBy(ctx, "email", email)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.User{}, err
		}
		newUser.ID = id.String()
	}

	query := `
		INSERT INTO users (
			id, username, password_hash, full_name, role, email, account_status,
			position, department, start_date, working_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Username,
		newUser.PasswordHash,
		newUser.FullName,
		newUser.Role,
		newUser.Email,
		newUser.AccountStatus,
		newUser.Position,
		newUser.Department,
		newUser.StartDate,
		newUser.WorkingStatus,
	))
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET username = $2, password_hash = $3, full_name = $4, role = $5, email = $6,
			account_status = $7, position = $8, department = $9, start_date = $10,
			working_status = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, query,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.FullName,
		u.Role,
		u.Email,
		u.AccountStatus,
		u.Position,
		u.Department,
		u.StartDate,
		u.WorkingStatus,
	))
}
