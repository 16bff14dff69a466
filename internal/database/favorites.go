package database

import (
	"context"
	"errors"

	"archiwum-zwojow/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrFavoriteAlreadyExists = errors.New("this scroll is already in favorites")
var ErrScrollNotFound = errors.New("scroll not found")

func (q *Queries) AddFavorite(ctx context.Context, userID int64, scrollID int64) error {
	scroll, err := q.GetScrollByID(ctx, scrollID)
	if err != nil {
		return err
	}
	if scroll == nil {
		return ErrScrollNotFound
	}

	query := `INSERT INTO scroll_favorites (user_id, scroll_id) VALUES ($1, $2)`
	_, err = q.db.Exec(ctx, query, userID, scrollID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrFavoriteAlreadyExists
		}
		return err
	}

	return nil
}

func (q *Queries) RemoveFavorite(ctx context.Context, userID int64, scrollID int64) (bool, error) {
	query := `DELETE FROM scroll_favorites WHERE user_id = $1 AND scroll_id = $2`
	res, err := q.db.Exec(ctx, query, userID, scrollID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) ListFavorites(ctx context.Context, userID int64) ([]models.Scroll, error) {
	query := `
		SELECT
			s.id, s.owner_id, s.name, s.file_name, s.mime_type,
			s.downloads, s.created_at, s.updated_at
		FROM scrolls s
		JOIN scroll_favorites f ON s.id = f.scroll_id
		WHERE f.user_id = $1
		ORDER BY s.name
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID, &scroll.OwnerID, &scroll.Name, &scroll.FileName, &scroll.MimeType,
			&scroll.Downloads, &scroll.CreatedAt, &scroll.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		scrolls = append(scrolls, scroll)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if scrolls == nil {
		return []models.Scroll{}, nil
	}

	return scrolls, nil
}
