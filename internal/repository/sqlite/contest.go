package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

var _ repository.ContestRepository = (*ContestDB)(nil)

// ContestDB persists contests and their entries. Obtain one with
// db.Contests().
//
// Prizes are stored as a JSON array in a TEXT column. The stored status
// column is only the status at write time; reads recompute it from the
// date window so it never goes stale.
type ContestDB struct {
	db *DB
}

func (db *DB) Contests() *ContestDB {
	return &ContestDB{db: db}
}

const contestColumns = `ct.id, ct.title, ct.description, ct.category,
	ct.start_date, ct.end_date, ct.entry_fee, ct.max_entries, ct.prizes,
	ct.club_id, ct.is_public, ct.status, ct.created_by, ct.created_at,
	c.name,
	(SELECT COUNT(*) FROM contest_entries ce WHERE ce.contest_id = ct.id)`

func (r *ContestDB) Create(ctx context.Context, contest *model.Contest) error {
	contest.ID = xid.New().String()
	contest.CreatedAt = time.Now()
	contest.Status = contest.StatusAt(contest.CreatedAt)

	prizes, err := json.Marshal(contest.Prizes)
	if err != nil {
		return fmt.Errorf("sqlite: encoding prizes: %w", err)
	}

	// An empty ClubID means a site-wide contest; store NULL so the club
	// foreign key does not fire.
	var clubID any
	if contest.ClubID != "" {
		clubID = contest.ClubID
	}

	_, err = r.db.conn.ExecContext(ctx,
		`INSERT INTO contests (id, title, description, category, start_date,
			end_date, entry_fee, max_entries, prizes, club_id, is_public,
			status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contest.ID,
		contest.Title,
		contest.Description,
		contest.Category,
		contest.StartDate,
		contest.EndDate,
		contest.EntryFee,
		contest.MaxEntries,
		string(prizes),
		clubID,
		contest.IsPublic,
		contest.Status,
		contest.CreatedBy,
		contest.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting contest: %w", err)
	}
	return nil
}

func scanContest(scan func(dest ...any) error) (*model.Contest, error) {
	var ct model.Contest
	var prizes string
	var clubID, clubName sql.NullString
	err := scan(
		&ct.ID, &ct.Title, &ct.Description, &ct.Category,
		&ct.StartDate, &ct.EndDate, &ct.EntryFee, &ct.MaxEntries, &prizes,
		&clubID, &ct.IsPublic, &ct.Status, &ct.CreatedBy, &ct.CreatedAt,
		&clubName, &ct.TotalEntries,
	)
	if err != nil {
		return nil, err
	}
	ct.ClubID = clubID.String
	ct.ClubName = clubName.String
	if err := json.Unmarshal([]byte(prizes), &ct.Prizes); err != nil {
		return nil, fmt.Errorf("decoding prizes: %w", err)
	}
	ct.Status = ct.StatusAt(time.Now())
	return &ct, nil
}

func (r *ContestDB) GetByID(ctx context.Context, id string) (*model.Contest, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+contestColumns+`
		 FROM contests ct
		 LEFT JOIN clubs c ON ct.club_id = c.id
		 WHERE ct.id = ?`,
		id,
	)

	contest, err := scanContest(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("contest", id)
		}
		return nil, fmt.Errorf("sqlite: getting contest %s: %w", id, err)
	}

	return contest, nil
}

// List returns public contests, optionally filtered by status and category.
// Status filtering happens after the scan because the derived status can
// differ from the stored column.
func (r *ContestDB) List(ctx context.Context, status, category string) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + `
		 FROM contests ct
		 LEFT JOIN clubs c ON ct.club_id = c.id
		 WHERE ct.is_public = 1`
	args := []any{}

	if category != "" {
		query += ` AND ct.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY ct.start_date DESC`

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contests: %w", err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		contest, err := scanContest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning contest row: %w", err)
		}
		if status != "" && contest.Status != status {
			continue
		}
		contests = append(contests, *contest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating contests: %w", err)
	}

	return contests, nil
}

// ListByClub returns a club's contests. Private contests are included only
// when includePrivate is set (the caller has verified membership).
func (r *ContestDB) ListByClub(ctx context.Context, clubID string, includePrivate bool) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + `
		 FROM contests ct
		 LEFT JOIN clubs c ON ct.club_id = c.id
		 WHERE ct.club_id = ?`
	if !includePrivate {
		query += ` AND ct.is_public = 1`
	}
	query += ` ORDER BY ct.start_date DESC`

	rows, err := r.db.conn.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contests for club %s: %w", clubID, err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		contest, err := scanContest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning contest row: %w", err)
		}
		contests = append(contests, *contest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating contests: %w", err)
	}

	return contests, nil
}

func (r *ContestDB) AddEntry(ctx context.Context, entry *model.ContestEntry) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO contest_entries (id, contest_id, user_id, title,
			description, filename, thumbnail_filename, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ContestID,
		entry.UserID,
		entry.Title,
		entry.Description,
		entry.Filename,
		entry.ThumbnailFilename,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting contest entry: %w", err)
	}
	return nil
}

const entryColumns = `ce.id, ce.contest_id, ce.user_id, ce.title,
	ce.description, ce.filename, ce.thumbnail_filename, ce.created_at,
	u.username, u.display_name`

func (r *ContestDB) queryEntries(ctx context.Context, query string, args ...any) ([]model.ContestEntry, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contest entries: %w", err)
	}
	defer rows.Close()

	entries := []model.ContestEntry{}
	for rows.Next() {
		var e model.ContestEntry
		if err := rows.Scan(
			&e.ID, &e.ContestID, &e.UserID, &e.Title,
			&e.Description, &e.Filename, &e.ThumbnailFilename, &e.CreatedAt,
			&e.Username, &e.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}

	return entries, nil
}

func (r *ContestDB) Entries(ctx context.Context, contestID string) ([]model.ContestEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+`
		 FROM contest_entries ce
		 JOIN users u ON ce.user_id = u.id
		 WHERE ce.contest_id = ?
		 ORDER BY ce.created_at DESC`,
		contestID,
	)
}

func (r *ContestDB) EntriesByUser(ctx context.Context, userID string) ([]model.ContestEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+`
		 FROM contest_entries ce
		 JOIN users u ON ce.user_id = u.id
		 WHERE ce.user_id = ?
		 ORDER BY ce.created_at DESC`,
		userID,
	)
}

// EntryCount returns how many entries the user already has in the contest,
// used to enforce the per-user entry limit.
func (r *ContestDB) EntryCount(ctx context.Context, contestID, userID string) (int, error) {
	var count int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contest_entries WHERE contest_id = ? AND user_id = ?`,
		contestID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting entries: %w", err)
	}
	return count, nil
}
