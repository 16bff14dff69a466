package database

import (
	"context"
	"errors"
	"time"

	"archiwum-zwojow/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateScrollName = errors.New("a scroll with the same name already exists")

type CreateScrollParams struct {
	OwnerID  int64
	Name     string
	Content  []byte
	FileName string
	MimeType string
	Password string
}

func (q *Queries) CreateScroll(ctx context.Context, arg CreateScrollParams) (*models.Scroll, error) {
	query := `
		INSERT INTO scrolls (owner_id, name, content, file_name, mime_type, password, downloads, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $7)
		RETURNING id, owner_id, name, file_name, mime_type, password, downloads, created_at, updated_at
	`
	now := time.Now()

	row := q.db.QueryRow(ctx, query,
		arg.OwnerID,
		arg.Name,
		arg.Content,
		arg.FileName,
		arg.MimeType,
		arg.Password,
		now,
	)

	var scroll models.Scroll
	err := row.Scan(
		&scroll.ID,
		&scroll.OwnerID,
		&scroll.Name,
		&scroll.FileName,
		&scroll.MimeType,
		&scroll.Password,
		&scroll.Downloads,
		&scroll.CreatedAt,
		&scroll.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateScrollName
		}
		return nil, err
	}

	scroll.Content = arg.Content
	return &scroll, nil
}

func (q *Queries) GetScrollByID(ctx context.Context, id int64) (*models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, password, downloads, created_at, updated_at
		FROM scrolls
		WHERE id = $1
	`
	var scroll models.Scroll

	err := q.db.QueryRow(ctx, query, id).Scan(
		&scroll.ID,
		&scroll.OwnerID,
		&scroll.Name,
		&scroll.FileName,
		&scroll.MimeType,
		&scroll.Password,
		&scroll.Downloads,
		&scroll.CreatedAt,
		&scroll.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &scroll, nil
}

func (q *Queries) GetScrollWithContent(ctx context.Context, id int64) (*models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, content, file_name, mime_type, password, downloads, created_at, updated_at
		FROM scrolls
		WHERE id = $1
	`
	var scroll models.Scroll

	err := q.db.QueryRow(ctx, query, id).Scan(
		&scroll.ID,
		&scroll.OwnerID,
		&scroll.Name,
		&scroll.Content,
		&scroll.FileName,
		&scroll.MimeType,
		&scroll.Password,
		&scroll.Downloads,
		&scroll.CreatedAt,
		&scroll.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &scroll, nil
}

func (q *Queries) ScrollNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM scrolls WHERE lower(name) = lower($1))"
	err := q.db.QueryRow(ctx, query, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (q *Queries) ListScrolls(ctx context.Context) ([]models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID,
			&scroll.OwnerID,
			&scroll.Name,
			&scroll.FileName,
			&scroll.MimeType,
			&scroll.Downloads,
			&scroll.CreatedAt,
			&scroll.UpdatedAt,
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

func (q *Queries) RenameScroll(ctx context.Context, id int64, newName string) (bool, error) {
	query := `
		UPDATE scrolls
		SET name = $1, updated_at = $2
		WHERE id = $3
	`
	now := time.Now()
	res, err := q.db.Exec(ctx, query, newName, now, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, ErrDuplicateScrollName
		}
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) SetScrollPassword(ctx context.Context, id int64, password string) (bool, error) {
	query := `
		UPDATE scrolls
		SET password = $1, updated_at = $2
		WHERE id = $3
	`
	now := time.Now()
	res, err := q.db.Exec(ctx, query, password, now, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) ReplaceScrollContent(ctx context.Context, id int64, content []byte, fileName, mimeType string) (bool, error) {
	query := `
		UPDATE scrolls
		SET content = $1, file_name = $2, mime_type = $3, updated_at = $4
		WHERE id = $5
	`
	now := time.Now()
	res, err := q.db.Exec(ctx, query, content, fileName, mimeType, now, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteScrollOwned(ctx context.Context, id int64, ownerID int64) (bool, error) {
	query := `DELETE FROM scrolls WHERE id = $1 AND owner_id = $2`
	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// RegisterDownload zwiększa licznik i zwraca treść jednym UPDATE,
// więc równoległe pobrania nie gubią inkrementacji.
// Zwraca (nil, nil) gdy zwój nie istnieje albo hasło się nie zgadza.
func (q *Queries) RegisterDownload(ctx context.Context, id int64, suppliedPassword string) (*models.Scroll, error) {
	query := `
		UPDATE scrolls
		SET downloads = downloads + 1
		WHERE id = $1 AND (password = '' OR password = $2)
		RETURNING id, owner_id, name, content, file_name, mime_type, downloads
	`
	var scroll models.Scroll
	err := q.db.QueryRow(ctx, query, id, suppliedPassword).Scan(
		&scroll.ID,
		&scroll.OwnerID,
		&scroll.Name,
		&scroll.Content,
		&scroll.FileName,
		&scroll.MimeType,
		&scroll.Downloads,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &scroll, nil
}

func (q *Queries) GetScrollsByOwner(ctx context.Context, ownerID int64) ([]models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID,
			&scroll.OwnerID,
			&scroll.Name,
			&scroll.FileName,
			&scroll.MimeType,
			&scroll.Downloads,
			&scroll.CreatedAt,
			&scroll.UpdatedAt,
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

func (q *Queries) SearchScrollsByName(ctx context.Context, namePart string) ([]models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, namePart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID,
			&scroll.OwnerID,
			&scroll.Name,
			&scroll.FileName,
			&scroll.MimeType,
			&scroll.Downloads,
			&scroll.CreatedAt,
			&scroll.UpdatedAt,
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

func (q *Queries) GetScrollsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID,
			&scroll.OwnerID,
			&scroll.Name,
			&scroll.FileName,
			&scroll.MimeType,
			&scroll.Downloads,
			&scroll.CreatedAt,
			&scroll.UpdatedAt,
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

func (q *Queries) ListScrollsByDownloads(ctx context.Context, descending bool) ([]models.Scroll, error) {
	query := `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		ORDER BY downloads ASC, id ASC
	`
	if descending {
		query = `
		SELECT id, owner_id, name, file_name, mime_type, downloads, created_at, updated_at
		FROM scrolls
		ORDER BY downloads DESC, id ASC
	`
	}

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrolls []models.Scroll
	for rows.Next() {
		var scroll models.Scroll
		err := rows.Scan(
			&scroll.ID,
			&scroll.OwnerID,
			&scroll.Name,
			&scroll.FileName,
			&scroll.MimeType,
			&scroll.Downloads,
			&scroll.CreatedAt,
			&scroll.UpdatedAt,
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

// AdjustScrollDownloads przesuwa licznik o delta, nie schodząc poniżej zera.
func (q *Queries) AdjustScrollDownloads(ctx context.Context, id int64, delta int64) (bool, error) {
	query := `
		UPDATE scrolls
		SET downloads = GREATEST(downloads + $1, 0)
		WHERE id = $2
	`
	res, err := q.db.Exec(ctx, query, delta, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
