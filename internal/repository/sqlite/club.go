package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/rs/xid"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

// compile-time check that *ClubDB implements repository.ClubRepository
var _ repository.ClubRepository = (*ClubDB)(nil)

// ClubDB provides club, membership, and club-photo persistence.
// Obtain one with db.Clubs().
//
// COUNTER INVARIANT:
// clubs.member_count must equal the number of club_members rows and
// clubs.photo_count the number of club_photos rows at every commit point.
// Every method that inserts or deletes one of those rows bumps the counter
// inside the same transaction. The UNIQUE constraints on (club_id, user_id)
// and (club_id, photo_id) turn duplicate-insert races into ErrConflict.
type ClubDB struct {
	db *DB
}

// Clubs returns the club repository view of the database.
func (db *DB) Clubs() *ClubDB {
	return &ClubDB{db: db}
}

const clubColumns = `c.id, c.name, c.description, c.creator_id, c.cover_image,
	c.is_private, c.member_count, c.photo_count, c.created_at,
	u.username, u.display_name`

// Create inserts the club row and the creator's role=owner membership row
// as one transaction. A club must never exist without its owner membership,
// so a failure of the second insert rolls back the first.
func (r *ClubDB) Create(ctx context.Context, club *model.Club) error {
	club.ID = xid.New().String()
	club.CreatedAt = time.Now()
	club.MemberCount = 1
	club.PhotoCount = 0

	membershipID := xid.New().String()

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO clubs (id, name, description, creator_id, cover_image,
				is_private, member_count, photo_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, 1, 0, ?)`,
			club.ID,
			club.Name,
			club.Description,
			club.CreatorID,
			club.CoverImage,
			club.IsPrivate,
			club.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting club: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO club_members (id, club_id, user_id, role, joined_at)
			 VALUES (?, ?, ?, 'owner', ?)`,
			membershipID,
			club.ID,
			club.CreatorID,
			club.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting owner membership: %w", err)
		}

		return nil
	})
}

func scanClub(scan func(dest ...any) error) (*model.Club, error) {
	var c model.Club
	var creatorUsername, creatorDisplayName sql.NullString
	err := scan(
		&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.CoverImage,
		&c.IsPrivate, &c.MemberCount, &c.PhotoCount, &c.CreatedAt,
		&creatorUsername, &creatorDisplayName,
	)
	if err != nil {
		return nil, err
	}
	c.CreatorUsername = creatorUsername.String
	c.CreatorDisplayName = creatorDisplayName.String
	return &c, nil
}

// GetByID retrieves a club with creator attribution joined in.
func (r *ClubDB) GetByID(ctx context.Context, id string) (*model.Club, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+clubColumns+`
		 FROM clubs c
		 LEFT JOIN users u ON c.creator_id = u.id
		 WHERE c.id = ?`,
		id,
	)

	club, err := scanClub(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("club", id)
		}
		return nil, fmt.Errorf("sqlite: getting club %s: %w", id, err)
	}

	return club, nil
}

// List returns public clubs, newest first.
func (r *ClubDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Club, error) {
	limit, offset := clampPage(opts)

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+clubColumns+`
		 FROM clubs c
		 LEFT JOIN users u ON c.creator_id = u.id
		 WHERE c.is_private = 0
		 ORDER BY c.created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing clubs: %w", err)
	}
	defer rows.Close()

	clubs := []model.Club{}
	for rows.Next() {
		club, err := scanClub(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning club row: %w", err)
		}
		clubs = append(clubs, *club)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating clubs: %w", err)
	}

	return clubs, nil
}

// ListByUser returns every club the user is a member of, with their role.
func (r *ClubDB) ListByUser(ctx context.Context, userID string) ([]model.UserClub, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+clubColumns+`, cm.role
		 FROM clubs c
		 LEFT JOIN users u ON c.creator_id = u.id
		 JOIN club_members cm ON c.id = cm.club_id
		 WHERE cm.user_id = ?
		 ORDER BY c.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing clubs for user %s: %w", userID, err)
	}
	defer rows.Close()

	clubs := []model.UserClub{}
	for rows.Next() {
		var uc model.UserClub
		var creatorUsername, creatorDisplayName sql.NullString
		if err := rows.Scan(
			&uc.ID, &uc.Name, &uc.Description, &uc.CreatorID, &uc.CoverImage,
			&uc.IsPrivate, &uc.MemberCount, &uc.PhotoCount, &uc.CreatedAt,
			&creatorUsername, &creatorDisplayName, &uc.Role,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user club row: %w", err)
		}
		uc.CreatorUsername = creatorUsername.String
		uc.CreatorDisplayName = creatorDisplayName.String
		clubs = append(clubs, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user clubs: %w", err)
	}

	return clubs, nil
}

// Update writes the mutable club fields (name, description, cover image,
// privacy). Counters and creator are not touched.
func (r *ClubDB) Update(ctx context.Context, club *model.Club) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE clubs
		 SET name = ?, description = ?, cover_image = ?, is_private = ?
		 WHERE id = ?`,
		club.Name,
		club.Description,
		club.CoverImage,
		club.IsPrivate,
		club.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating club %s: %w", club.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("club", club.ID)
	}

	return nil
}

// Delete removes the club. Membership and photo-association rows go with
// it via ON DELETE CASCADE.
func (r *ClubDB) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM clubs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting club %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("club", id)
	}

	return nil
}

// Membership looks up userID's membership in clubID. A missing row is a
// normal answer ({IsMember: false}), not an error.
func (r *ClubDB) Membership(ctx context.Context, clubID, userID string) (model.MembershipStatus, error) {
	var role model.Role
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT role FROM club_members WHERE club_id = ? AND user_id = ?`,
		clubID, userID,
	).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.MembershipStatus{}, nil
		}
		return model.MembershipStatus{}, fmt.Errorf("sqlite: checking membership: %w", err)
	}

	return model.MembershipStatus{IsMember: true, Role: role}, nil
}

// Members lists a club's members ordered owner → admin → member, then by
// join time ascending.
func (r *ClubDB) Members(ctx context.Context, clubID string) ([]model.ClubMember, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT cm.id, cm.club_id, cm.user_id, cm.role, cm.joined_at,
			u.username, u.display_name, u.profile_image
		 FROM club_members cm
		 JOIN users u ON cm.user_id = u.id
		 WHERE cm.club_id = ?
		 ORDER BY cm.joined_at ASC`,
		clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing members of club %s: %w", clubID, err)
	}
	defer rows.Close()

	members := []model.ClubMember{}
	for rows.Next() {
		var m model.ClubMember
		if err := rows.Scan(
			&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.Username, &m.DisplayName, &m.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating members: %w", err)
	}

	// Rows arrive in join order; the stable sort keeps that order within
	// each role tier.
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Role.Rank() < members[j].Role.Rank()
	})

	return members, nil
}

// Join inserts a role=member row and increments member_count in one
// transaction. Two racing joins for the same (club, user) both reach the
// INSERT; the UNIQUE constraint fails the loser, which reports ErrConflict
// and leaves the counter untouched thanks to the rollback.
func (r *ClubDB) Join(ctx context.Context, clubID, userID string) error {
	membershipID := xid.New().String()

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO club_members (id, club_id, user_id, role)
			 VALUES (?, ?, ?, 'member')`,
			membershipID, clubID, userID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("you are already a member of this club")
			}
			return fmt.Errorf("sqlite: inserting membership: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE clubs SET member_count = member_count + 1 WHERE id = ?`,
			clubID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: incrementing member count: %w", err)
		}

		return nil
	})
}

// Leave deletes the membership row and decrements member_count in one
// transaction. The decrement runs only after the DELETE reported one
// affected row, so member_count cannot go negative through this path.
func (r *ClubDB) Leave(ctx context.Context, clubID, userID string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM club_members WHERE club_id = ? AND user_id = ?`,
			clubID, userID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: deleting membership: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperror.NotFound("membership", clubID+"/"+userID)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE clubs SET member_count = member_count - 1 WHERE id = ?`,
			clubID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: decrementing member count: %w", err)
		}

		return nil
	})
}

// Promote flips an existing role=member row to role=admin. Owners and
// admins are left alone — promoting them is a no-op the service rejects
// earlier.
func (r *ClubDB) Promote(ctx context.Context, clubID, userID string) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE club_members SET role = 'admin'
		 WHERE club_id = ? AND user_id = ? AND role = 'member'`,
		clubID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: promoting member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("membership", clubID+"/"+userID)
	}

	return nil
}

// AddPhoto associates an existing photo with the club and increments
// photo_count in one transaction. Duplicate (club, photo) pairs surface as
// ErrConflict via the UNIQUE constraint.
func (r *ClubDB) AddPhoto(ctx context.Context, clubID, photoID, posterID string) error {
	cp := model.ClubPhoto{
		ID:       xid.New().String(),
		ClubID:   clubID,
		PhotoID:  photoID,
		PostedBy: posterID,
		PostedAt: time.Now().UTC(),
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO club_photos (id, club_id, photo_id, posted_by, posted_at)
			 VALUES (?, ?, ?, ?, ?)`,
			cp.ID, cp.ClubID, cp.PhotoID, cp.PostedBy, cp.PostedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("this photo is already posted to this club")
			}
			return fmt.Errorf("sqlite: inserting club photo: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE clubs SET photo_count = photo_count + 1 WHERE id = ?`,
			clubID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: incrementing photo count: %w", err)
		}

		return nil
	})
}

// Photos returns a club's photo feed, newest post first, joined with the
// poster's profile.
func (r *ClubDB) Photos(ctx context.Context, clubID string, opts repository.ListOptions) ([]model.ClubFeedPhoto, error) {
	limit, offset := clampPage(opts)

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.description, p.tags, p.featured_stream,
			p.filename, p.thumbnail_filename, p.original_name, p.file_size,
			p.mime_type, p.upload_date, p.user_id, p.created_at,
			cp.posted_at, u.username, u.display_name
		 FROM club_photos cp
		 JOIN photos p ON cp.photo_id = p.id
		 JOIN users u ON cp.posted_by = u.id
		 WHERE cp.club_id = ?
		 ORDER BY cp.posted_at DESC
		 LIMIT ? OFFSET ?`,
		clubID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing photos of club %s: %w", clubID, err)
	}
	defer rows.Close()

	photos := []model.ClubFeedPhoto{}
	for rows.Next() {
		var fp model.ClubFeedPhoto
		var userID sql.NullString
		if err := rows.Scan(
			&fp.ID, &fp.Title, &fp.Description, &fp.Tags, &fp.FeaturedStream,
			&fp.Filename, &fp.ThumbnailFilename, &fp.OriginalName, &fp.FileSize,
			&fp.MimeType, &fp.UploadDate, &userID, &fp.CreatedAt,
			&fp.PostedAt, &fp.PostedByUsername, &fp.PostedByDisplayName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning club photo row: %w", err)
		}
		fp.UserID = userID.String
		photos = append(photos, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating club photos: %w", err)
	}

	return photos, nil
}
