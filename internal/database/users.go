package database

import (
	"context"
	"errors"
	"time"

	"archiwum-zwojow/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUsername = errors.New("a user with this username already exists")

type CreateUserParams struct {
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Emoji        string
	IsAdmin      bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name, phone, emoji, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, username, password_hash, email, first_name, last_name, phone, emoji, is_admin, created_at
	`
	now := time.Now()

	var user models.User
	err := q.db.QueryRow(ctx, query,
		arg.Username,
		arg.PasswordHash,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.Phone,
		arg.Emoji,
		arg.IsAdmin,
		now,
	).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Emoji,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, first_name, last_name, phone, emoji, is_admin, created_at
		FROM users
		WHERE lower(username) = lower($1)
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Emoji,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, first_name, last_name, phone, emoji, is_admin, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Emoji,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))"
	err := q.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type UserWithScrollCount struct {
	models.User
	ScrollCount int64 `json:"scroll_count"`
}

func (q *Queries) ListUsersWithScrollCounts(ctx context.Context) ([]UserWithScrollCount, error) {
	query := `
		SELECT
			u.id, u.username, u.password_hash, u.email, u.first_name, u.last_name,
			u.phone, u.emoji, u.is_admin, u.created_at,
			count(s.id) AS scroll_count
		FROM users u
		LEFT JOIN scrolls s ON s.owner_id = u.id
		GROUP BY u.id
		ORDER BY u.id
	`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserWithScrollCount
	for rows.Next() {
		var user UserWithScrollCount
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Phone,
			&user.Emoji,
			&user.IsAdmin,
			&user.CreatedAt,
			&user.ScrollCount,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []UserWithScrollCount{}, nil
	}

	return users, nil
}

func (q *Queries) SearchUsersByUsername(ctx context.Context, usernamePart string) ([]UserWithScrollCount, error) {
	query := `
		SELECT
			u.id, u.username, u.password_hash, u.email, u.first_name, u.last_name,
			u.phone, u.emoji, u.is_admin, u.created_at,
			count(s.id) AS scroll_count
		FROM users u
		LEFT JOIN scrolls s ON s.owner_id = u.id
		WHERE u.username ILIKE '%' || $1 || '%'
		GROUP BY u.id
		ORDER BY u.id
	`
	rows, err := q.db.Query(ctx, query, usernamePart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserWithScrollCount
	for rows.Next() {
		var user UserWithScrollCount
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Phone,
			&user.Emoji,
			&user.IsAdmin,
			&user.CreatedAt,
			&user.ScrollCount,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []UserWithScrollCount{}, nil
	}

	return users, nil
}

func (q *Queries) SetUserAdmin(ctx context.Context, id int64, isAdmin bool) (bool, error) {
	query := `UPDATE users SET is_admin = $1 WHERE id = $2`
	res, err := q.db.Exec(ctx, query, isAdmin, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

type UpdateProfileParams struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Emoji     string
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateProfileParams) (bool, error) {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4, emoji = $5
		WHERE id = $6
	`
	res, err := q.db.Exec(ctx, query, arg.Email, arg.FirstName, arg.LastName, arg.Phone, arg.Emoji, arg.ID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}

func (q *Queries) DeleteUser(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
