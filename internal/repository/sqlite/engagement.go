package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

var (
	_ repository.LikeRepository    = (*LikeDB)(nil)
	_ repository.CommentRepository = (*CommentDB)(nil)
)

// LikeDB persists photo likes. Obtain one with db.Likes().
type LikeDB struct {
	db *DB
}

func (db *DB) Likes() *LikeDB {
	return &LikeDB{db: db}
}

// Toggle flips the like state for (photoID, userID, userIP) inside one
// transaction. It tries the DELETE first: one affected row means the like
// existed and is now gone. No affected row means we INSERT. If a racing
// request inserted between our DELETE and INSERT, the UNIQUE constraint
// fires and we treat the like as present, matching the caller's intent.
func (r *LikeDB) Toggle(ctx context.Context, photoID, userID, userIP string) (bool, error) {
	var liked bool
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM likes WHERE photo_id = ? AND user_id = ? AND user_ip = ?`,
			photoID, userID, userIP,
		)
		if err != nil {
			return fmt.Errorf("sqlite: deleting like: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected > 0 {
			liked = false
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO likes (id, photo_id, user_id, user_ip) VALUES (?, ?, ?, ?)`,
			xid.New().String(), photoID, userID, userIP,
		)
		if err != nil {
			if isUniqueViolation(err) {
				liked = true
				return nil
			}
			return fmt.Errorf("sqlite: inserting like: %w", err)
		}

		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Count returns the number of likes on a photo.
func (r *LikeDB) Count(ctx context.Context, photoID string) (int, error) {
	var count int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE photo_id = ?`,
		photoID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes: %w", err)
	}
	return count, nil
}

// Exists reports whether the given identity has liked the photo.
func (r *LikeDB) Exists(ctx context.Context, photoID, userID, userIP string) (bool, error) {
	var exists bool
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM likes WHERE photo_id = ? AND user_id = ? AND user_ip = ?
		)`,
		photoID, userID, userIP,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking like: %w", err)
	}
	return exists, nil
}

// CommentDB persists photo comments. Obtain one with db.Comments().
type CommentDB struct {
	db *DB
}

func (db *DB) Comments() *CommentDB {
	return &CommentDB{db: db}
}

func (r *CommentDB) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, photo_id, username, comment, user_ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PhotoID,
		comment.Username,
		comment.Comment,
		comment.UserIP,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}
	return nil
}

// ListByPhoto returns a photo's comments oldest first, the order a
// conversation reads in.
func (r *CommentDB) ListByPhoto(ctx context.Context, photoID string) ([]model.Comment, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, photo_id, username, comment, user_ip, created_at
		 FROM comments
		 WHERE photo_id = ?
		 ORDER BY created_at ASC`,
		photoID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.PhotoID, &c.Username, &c.Comment, &c.UserIP, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

func (r *CommentDB) Count(ctx context.Context, photoID string) (int, error) {
	var count int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE photo_id = ?`,
		photoID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting comments: %w", err)
	}
	return count, nil
}
