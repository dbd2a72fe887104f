package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

// Hand-written in-memory mocks for the repository interfaces. They store
// data in maps and return copies, so service tests run in microseconds
// with no database and can't interfere with each other.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------
// users

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.Conflict("username or email already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID == githubID {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}

func (m *mockUserRepo) List(_ context.Context, _ repository.ListOptions) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored.DisplayName = user.DisplayName
	stored.Bio = user.Bio
	stored.ProfileImage = user.ProfileImage
	return nil
}

// ---------------------------------------------------------------------
// photos

type mockPhotoRepo struct {
	photos map[string]*model.Photo
	nextID int
}

func newMockPhotoRepo() *mockPhotoRepo {
	return &mockPhotoRepo{photos: make(map[string]*model.Photo)}
}

func (m *mockPhotoRepo) Create(_ context.Context, photo *model.Photo) error {
	m.nextID++
	photo.ID = fmt.Sprintf("photo-%d", m.nextID)
	photo.CreatedAt = time.Now()
	stored := *photo
	m.photos[photo.ID] = &stored
	return nil
}

func (m *mockPhotoRepo) GetByID(_ context.Context, id string) (*model.Photo, error) {
	p, ok := m.photos[id]
	if !ok {
		return nil, apperror.NotFound("photo", id)
	}
	result := *p
	return &result, nil
}

func (m *mockPhotoRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Photo, error) {
	result := []model.Photo{}
	for _, p := range m.photos {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPhotoRepo) ListFeatured(_ context.Context, _ repository.ListOptions) ([]model.Photo, error) {
	result := []model.Photo{}
	for _, p := range m.photos {
		if p.FeaturedStream {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPhotoRepo) ListByUser(_ context.Context, userID string) ([]model.Photo, error) {
	result := []model.Photo{}
	for _, p := range m.photos {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPhotoRepo) Update(_ context.Context, photo *model.Photo) error {
	stored, ok := m.photos[photo.ID]
	if !ok {
		return apperror.NotFound("photo", photo.ID)
	}
	stored.Title = photo.Title
	stored.Description = photo.Description
	return nil
}

func (m *mockPhotoRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.photos[id]; !ok {
		return apperror.NotFound("photo", id)
	}
	delete(m.photos, id)
	return nil
}

// ---------------------------------------------------------------------
// clubs

type mockClubRepo struct {
	clubs   map[string]*model.Club
	members map[string]map[string]model.Role // clubID → userID → role
	photos  map[string]map[string]string     // clubID → photoID → posterID
	nextID  int
}

func newMockClubRepo() *mockClubRepo {
	return &mockClubRepo{
		clubs:   make(map[string]*model.Club),
		members: make(map[string]map[string]model.Role),
		photos:  make(map[string]map[string]string),
	}
}

func (m *mockClubRepo) Create(_ context.Context, club *model.Club) error {
	m.nextID++
	club.ID = fmt.Sprintf("club-%d", m.nextID)
	club.CreatedAt = time.Now()
	club.MemberCount = 1
	stored := *club
	m.clubs[club.ID] = &stored
	m.members[club.ID] = map[string]model.Role{club.CreatorID: model.RoleOwner}
	m.photos[club.ID] = map[string]string{}
	return nil
}

func (m *mockClubRepo) GetByID(_ context.Context, id string) (*model.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return nil, apperror.NotFound("club", id)
	}
	result := *c
	return &result, nil
}

func (m *mockClubRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Club, error) {
	result := []model.Club{}
	for _, c := range m.clubs {
		if !c.IsPrivate {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockClubRepo) ListByUser(_ context.Context, userID string) ([]model.UserClub, error) {
	result := []model.UserClub{}
	for clubID, members := range m.members {
		if role, ok := members[userID]; ok {
			result = append(result, model.UserClub{Club: *m.clubs[clubID], Role: role})
		}
	}
	return result, nil
}

func (m *mockClubRepo) Update(_ context.Context, club *model.Club) error {
	stored, ok := m.clubs[club.ID]
	if !ok {
		return apperror.NotFound("club", club.ID)
	}
	stored.Name = club.Name
	stored.Description = club.Description
	stored.CoverImage = club.CoverImage
	stored.IsPrivate = club.IsPrivate
	return nil
}

func (m *mockClubRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.clubs[id]; !ok {
		return apperror.NotFound("club", id)
	}
	delete(m.clubs, id)
	delete(m.members, id)
	delete(m.photos, id)
	return nil
}

func (m *mockClubRepo) Membership(_ context.Context, clubID, userID string) (model.MembershipStatus, error) {
	role, ok := m.members[clubID][userID]
	if !ok {
		return model.MembershipStatus{}, nil
	}
	return model.MembershipStatus{IsMember: true, Role: role}, nil
}

func (m *mockClubRepo) Members(_ context.Context, clubID string) ([]model.ClubMember, error) {
	result := []model.ClubMember{}
	for userID, role := range m.members[clubID] {
		result = append(result, model.ClubMember{
			ClubMembership: model.ClubMembership{ClubID: clubID, UserID: userID, Role: role},
		})
	}
	return result, nil
}

func (m *mockClubRepo) Join(_ context.Context, clubID, userID string) error {
	if _, ok := m.members[clubID][userID]; ok {
		return apperror.Conflict("you are already a member of this club")
	}
	m.members[clubID][userID] = model.RoleMember
	m.clubs[clubID].MemberCount++
	return nil
}

func (m *mockClubRepo) Leave(_ context.Context, clubID, userID string) error {
	if _, ok := m.members[clubID][userID]; !ok {
		return apperror.NotFound("membership", clubID+"/"+userID)
	}
	delete(m.members[clubID], userID)
	m.clubs[clubID].MemberCount--
	return nil
}

func (m *mockClubRepo) Promote(_ context.Context, clubID, userID string) error {
	if m.members[clubID][userID] != model.RoleMember {
		return apperror.NotFound("membership", clubID+"/"+userID)
	}
	m.members[clubID][userID] = model.RoleAdmin
	return nil
}

func (m *mockClubRepo) AddPhoto(_ context.Context, clubID, photoID, posterID string) error {
	if _, ok := m.photos[clubID][photoID]; ok {
		return apperror.Conflict("this photo is already posted to this club")
	}
	m.photos[clubID][photoID] = posterID
	m.clubs[clubID].PhotoCount++
	return nil
}

func (m *mockClubRepo) Photos(_ context.Context, clubID string, _ repository.ListOptions) ([]model.ClubFeedPhoto, error) {
	result := []model.ClubFeedPhoto{}
	for photoID := range m.photos[clubID] {
		result = append(result, model.ClubFeedPhoto{Photo: model.Photo{ID: photoID}})
	}
	return result, nil
}

// ---------------------------------------------------------------------
// likes and comments

type mockLikeRepo struct {
	likes map[string]bool // photoID|userID|ip
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{likes: make(map[string]bool)}
}

func likeKey(photoID, userID, userIP string) string {
	return photoID + "|" + userID + "|" + userIP
}

func (m *mockLikeRepo) Toggle(_ context.Context, photoID, userID, userIP string) (bool, error) {
	key := likeKey(photoID, userID, userIP)
	if m.likes[key] {
		delete(m.likes, key)
		return false, nil
	}
	m.likes[key] = true
	return true, nil
}

func (m *mockLikeRepo) Count(_ context.Context, photoID string) (int, error) {
	count := 0
	for key := range m.likes {
		if len(key) > len(photoID) && key[:len(photoID)+1] == photoID+"|" {
			count++
		}
	}
	return count, nil
}

func (m *mockLikeRepo) Exists(_ context.Context, photoID, userID, userIP string) (bool, error) {
	return m.likes[likeKey(photoID, userID, userIP)], nil
}

type mockCommentRepo struct {
	comments []model.Comment
	nextID   int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	comment.CreatedAt = time.Now()
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *mockCommentRepo) ListByPhoto(_ context.Context, photoID string) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, c := range m.comments {
		if c.PhotoID == photoID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCommentRepo) Count(_ context.Context, photoID string) (int, error) {
	count := 0
	for _, c := range m.comments {
		if c.PhotoID == photoID {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------
// contests

type mockContestRepo struct {
	contests map[string]*model.Contest
	entries  []model.ContestEntry
	nextID   int
}

func newMockContestRepo() *mockContestRepo {
	return &mockContestRepo{contests: make(map[string]*model.Contest)}
}

func (m *mockContestRepo) Create(_ context.Context, contest *model.Contest) error {
	m.nextID++
	contest.ID = fmt.Sprintf("contest-%d", m.nextID)
	contest.CreatedAt = time.Now()
	contest.Status = contest.StatusAt(contest.CreatedAt)
	stored := *contest
	m.contests[contest.ID] = &stored
	return nil
}

func (m *mockContestRepo) GetByID(_ context.Context, id string) (*model.Contest, error) {
	c, ok := m.contests[id]
	if !ok {
		return nil, apperror.NotFound("contest", id)
	}
	result := *c
	result.Status = result.StatusAt(time.Now())
	return &result, nil
}

func (m *mockContestRepo) List(_ context.Context, status, category string) ([]model.Contest, error) {
	result := []model.Contest{}
	for _, c := range m.contests {
		if !c.IsPublic {
			continue
		}
		derived := *c
		derived.Status = derived.StatusAt(time.Now())
		if status != "" && derived.Status != status {
			continue
		}
		if category != "" && derived.Category != category {
			continue
		}
		result = append(result, derived)
	}
	return result, nil
}

func (m *mockContestRepo) ListByClub(_ context.Context, clubID string, includePrivate bool) ([]model.Contest, error) {
	result := []model.Contest{}
	for _, c := range m.contests {
		if c.ClubID != clubID {
			continue
		}
		if !c.IsPublic && !includePrivate {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockContestRepo) AddEntry(_ context.Context, entry *model.ContestEntry) error {
	m.nextID++
	entry.ID = fmt.Sprintf("entry-%d", m.nextID)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockContestRepo) Entries(_ context.Context, contestID string) ([]model.ContestEntry, error) {
	result := []model.ContestEntry{}
	for _, e := range m.entries {
		if e.ContestID == contestID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockContestRepo) EntriesByUser(_ context.Context, userID string) ([]model.ContestEntry, error) {
	result := []model.ContestEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockContestRepo) EntryCount(_ context.Context, contestID, userID string) (int, error) {
	count := 0
	for _, e := range m.entries {
		if e.ContestID == contestID && e.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------
// image store

// fakeImageStore satisfies ImageStore without touching the filesystem.
// It records removals so tests can assert orphan cleanup.
type fakeImageStore struct {
	nextID  int
	removed []string
	failErr error // when set, Store returns this error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (f *fakeImageStore) Store(r io.Reader, declaredType string) (*media.StoredImage, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.nextID++
	return &media.StoredImage{
		Filename:          fmt.Sprintf("img-%d.jpg", f.nextID),
		ThumbnailFilename: fmt.Sprintf("thumb_img-%d.jpg", f.nextID),
		Size:              int64(len(data)),
		MimeType:          declaredType,
	}, nil
}

func (f *fakeImageStore) Remove(filenames ...string) {
	f.removed = append(f.removed, filenames...)
}
