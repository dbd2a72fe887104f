package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

// compile-time check that *PhotoDB implements repository.PhotoRepository
var _ repository.PhotoRepository = (*PhotoDB)(nil)

// PhotoDB provides photo persistence. Obtain one with db.Photos().
type PhotoDB struct {
	db *DB
}

// Photos returns the photo repository view of the database.
func (db *DB) Photos() *PhotoDB {
	return &PhotoDB{db: db}
}

const photoColumns = `id, title, description, tags, featured_stream, filename,
	thumbnail_filename, original_name, file_size, mime_type, upload_date,
	user_id, created_at`

// Create inserts a new photo record. The media pipeline has already written
// the files; this only records their names and attributes.
func (r *PhotoDB) Create(ctx context.Context, photo *model.Photo) error {
	if photo.ID == "" {
		photo.ID = xid.New().String()
	}
	photo.CreatedAt = time.Now()
	if photo.UploadDate.IsZero() {
		photo.UploadDate = photo.CreatedAt
	}

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO photos (id, title, description, tags, featured_stream,
			filename, thumbnail_filename, original_name, file_size, mime_type,
			upload_date, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		photo.ID,
		photo.Title,
		photo.Description,
		photo.Tags,
		photo.FeaturedStream,
		photo.Filename,
		photo.ThumbnailFilename,
		photo.OriginalName,
		photo.FileSize,
		photo.MimeType,
		photo.UploadDate,
		photo.UserID,
		photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting photo: %w", err)
	}

	return nil
}

// GetByID retrieves a single photo by its ID.
func (r *PhotoDB) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	var p model.Photo
	var userID sql.NullString

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = ?`, id,
	).Scan(
		&p.ID, &p.Title, &p.Description, &p.Tags, &p.FeaturedStream,
		&p.Filename, &p.ThumbnailFilename, &p.OriginalName, &p.FileSize,
		&p.MimeType, &p.UploadDate, &userID, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("photo", id)
		}
		return nil, fmt.Errorf("sqlite: getting photo %s: %w", id, err)
	}
	p.UserID = userID.String

	return &p, nil
}

func (r *PhotoDB) query(ctx context.Context, query string, args ...any) ([]model.Photo, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing photos: %w", err)
	}
	defer rows.Close()

	photos := []model.Photo{}
	for rows.Next() {
		var p model.Photo
		var userID sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Tags, &p.FeaturedStream,
			&p.Filename, &p.ThumbnailFilename, &p.OriginalName, &p.FileSize,
			&p.MimeType, &p.UploadDate, &userID, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning photo row: %w", err)
		}
		p.UserID = userID.String
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating photos: %w", err)
	}

	return photos, nil
}

// List returns photos newest first, paginated.
func (r *PhotoDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Photo, error) {
	limit, offset := clampPage(opts)
	return r.query(ctx,
		`SELECT `+photoColumns+`
		 FROM photos
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// ListFeatured returns photos flagged for the global featured stream.
func (r *PhotoDB) ListFeatured(ctx context.Context, opts repository.ListOptions) ([]model.Photo, error) {
	limit, offset := clampPage(opts)
	return r.query(ctx,
		`SELECT `+photoColumns+`
		 FROM photos
		 WHERE featured_stream = 1
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// ListByUser returns all photos owned by userID, newest first.
func (r *PhotoDB) ListByUser(ctx context.Context, userID string) ([]model.Photo, error) {
	return r.query(ctx,
		`SELECT `+photoColumns+`
		 FROM photos
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
}

// Update updates the mutable fields (title, description).
func (r *PhotoDB) Update(ctx context.Context, photo *model.Photo) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE photos SET title = ?, description = ? WHERE id = ?`,
		photo.Title, photo.Description, photo.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating photo %s: %w", photo.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("photo", photo.ID)
	}

	return nil
}

// Delete removes a photo row. Likes, comments, and club associations
// cascade via foreign keys; club photoCounts are corrected in the same
// transaction so the counter invariant survives the cascade.
func (r *PhotoDB) Delete(ctx context.Context, id string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		// ON DELETE CASCADE on club_photos removes association rows without
		// touching clubs.photo_count, so decrement first while the
		// associations are still visible.
		_, err := tx.ExecContext(ctx,
			`UPDATE clubs
			 SET photo_count = photo_count - 1
			 WHERE id IN (SELECT club_id FROM club_photos WHERE photo_id = ?)`,
			id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: adjusting club photo counts: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting photo %s: %w", id, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperror.NotFound("photo", id)
		}

		return nil
	})
}

func clampPage(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
