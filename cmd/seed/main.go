// Package main seeds the database with demo data: a handful of accounts,
// clubs, photos, engagement, and a couple of contests. Useful for local
// frontend work against a database that isn't empty.
//
// Usage:
//
//	go run ./cmd/seed            # seeds data/photoapp.db and data/uploads
//	DB_PATH=demo.db go run ./cmd/seed
//
// Seeding is additive and not idempotent: running it twice creates a
// second batch of users. Delete the database file to start over.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/model"
	sqliteRepo "github.com/lenb209/PhotoApp/internal/repository/sqlite"
	"github.com/lenb209/PhotoApp/internal/service"
)

const (
	numUsers  = 12
	numClubs  = 4
	numPhotos = 30

	// Every seeded account gets the same password so you can log in as
	// any of them.
	demoPassword = "password123"
)

var categories = []string{"Nature", "Street", "Portrait", "Architecture", "General"}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dbPath := "data/photoapp.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	uploadDir := "data/uploads"
	if envDir := os.Getenv("UPLOAD_DIR"); envDir != "" {
		uploadDir = envDir
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("creating database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sqliteRepo.New(dbPath)
	if err != nil {
		logger.Error("opening database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	images, err := media.NewProcessor(uploadDir)
	if err != nil {
		logger.Error("creating media processor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed(context.Background(), db, images, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete",
		slog.String("database", dbPath),
		slog.String("password", demoPassword),
	)
}

func seed(ctx context.Context, db *sqliteRepo.DB, images *media.Processor, logger *slog.Logger) error {
	// A fixed seed makes repeat runs produce the same names, which keeps
	// screenshots and bug reports comparable.
	faker := gofakeit.New(42)

	// bcrypt.MinCost keeps the loop fast; these are throwaway demo
	// credentials, not real ones.
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	hash, err := passwords.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	// === Users ===
	users := make([]*model.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &model.User{
			Username:     fmt.Sprintf("%s%d", faker.Username(), i),
			Email:        fmt.Sprintf("demo%d@%s", i, faker.DomainName()),
			PasswordHash: hash,
			DisplayName:  faker.Name(),
			Bio:          faker.Sentence(12),
		}
		if err := db.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("creating user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}
	logger.Info("seeded users", slog.Int("count", len(users)))

	// === Photos ===
	// Real JPEG files go through the media pipeline so thumbnails exist
	// and /uploads serves something visible.
	photoService := service.NewPhotoService(db.Photos(), db.Likes(), db.Comments(), images, logger)
	photos := make([]*model.Photo, 0, numPhotos)
	for i := 0; i < numPhotos; i++ {
		owner := users[i%len(users)]
		photo, err := photoService.Upload(ctx, service.UploadInput{
			Title:          faker.HipsterSentence(3),
			Description:    faker.Sentence(15),
			Tags:           fmt.Sprintf("%s,%s", faker.HipsterWord(), faker.HipsterWord()),
			FeaturedStream: i%3 != 0, // roughly two thirds featured
			OriginalName:   fmt.Sprintf("%s.jpg", faker.Word()),
			ContentType:    "image/jpeg",
			File:           bytes.NewReader(demoJPEG(faker)),
			UserID:         owner.ID,
		})
		if err != nil {
			return fmt.Errorf("uploading photo %d: %w", i, err)
		}
		photos = append(photos, photo)
	}
	logger.Info("seeded photos", slog.Int("count", len(photos)))

	// === Clubs ===
	clubs := make([]*model.Club, 0, numClubs)
	for i := 0; i < numClubs; i++ {
		club := &model.Club{
			Name:        fmt.Sprintf("%s %s Club", faker.City(), faker.HipsterWord()),
			Description: faker.Sentence(10),
			CreatorID:   users[i].ID,
			IsPrivate:   i == numClubs-1, // last one private
		}
		if err := db.Clubs().Create(ctx, club); err != nil {
			return fmt.Errorf("creating club %q: %w", club.Name, err)
		}
		clubs = append(clubs, club)
	}

	// Every user joins a couple of clubs; the owner is already a member.
	for i, user := range users {
		for j := 0; j < 2; j++ {
			club := clubs[(i+j)%len(clubs)]
			if club.CreatorID == user.ID {
				continue
			}
			if err := db.Clubs().Join(ctx, club.ID, user.ID); err != nil {
				return fmt.Errorf("joining club: %w", err)
			}
		}
	}

	// Members share some of their photos into the club feeds.
	for i, photo := range photos {
		if i%2 != 0 {
			continue
		}
		club := clubs[i%len(clubs)]
		status, err := db.Clubs().Membership(ctx, club.ID, photo.UserID)
		if err != nil {
			return fmt.Errorf("checking membership: %w", err)
		}
		if !status.IsMember {
			continue
		}
		if err := db.Clubs().AddPhoto(ctx, club.ID, photo.ID, photo.UserID); err != nil {
			return fmt.Errorf("posting photo to club: %w", err)
		}
	}
	logger.Info("seeded clubs", slog.Int("count", len(clubs)))

	// === Engagement ===
	for i, photo := range photos {
		for j := 0; j < (i%5)+1; j++ {
			liker := users[(i+j+1)%len(users)]
			if _, err := db.Likes().Toggle(ctx, photo.ID, liker.ID, faker.IPv4Address()); err != nil {
				return fmt.Errorf("liking photo: %w", err)
			}
		}
		if i%3 == 0 {
			commenter := users[(i+2)%len(users)]
			comment := &model.Comment{
				PhotoID:  photo.ID,
				Username: commenter.Username,
				UserIP:   faker.IPv4Address(),
				Comment:  faker.Sentence(8),
			}
			if err := db.Comments().Create(ctx, comment); err != nil {
				return fmt.Errorf("commenting: %w", err)
			}
		}
	}

	// === Contests ===
	now := time.Now()
	contests := []*model.Contest{
		{
			Title:       "Golden Hour Open",
			Description: faker.Sentence(12),
			Category:    categories[faker.Number(0, len(categories)-1)],
			StartDate:   now.AddDate(0, 0, -7),
			EndDate:     now.AddDate(0, 0, 14),
			MaxEntries:  3,
			Prizes:      []string{"Feature on the front page", "Sticker pack"},
			IsPublic:    true,
			CreatedBy:   users[0].ID,
		},
		{
			Title:       fmt.Sprintf("%s Members' Cup", clubs[0].Name),
			Description: faker.Sentence(12),
			Category:    "General",
			StartDate:   now.AddDate(0, 0, -1),
			EndDate:     now.AddDate(0, 1, 0),
			MaxEntries:  2,
			Prizes:      []string{"Bragging rights"},
			ClubID:      clubs[0].ID,
			IsPublic:    false,
			CreatedBy:   clubs[0].CreatorID,
		},
	}
	for _, contest := range contests {
		contest.Status = contest.StatusAt(now)
		if err := db.Contests().Create(ctx, contest); err != nil {
			return fmt.Errorf("creating contest %q: %w", contest.Title, err)
		}
	}

	for i := 0; i < 5; i++ {
		entrant := users[i+1]
		stored, err := images.Store(bytes.NewReader(demoJPEG(faker)), "image/jpeg")
		if err != nil {
			return fmt.Errorf("storing entry image: %w", err)
		}
		entry := &model.ContestEntry{
			ContestID:         contests[0].ID,
			UserID:            entrant.ID,
			Title:             faker.HipsterSentence(3),
			Description:       faker.Sentence(10),
			Filename:          stored.Filename,
			ThumbnailFilename: stored.ThumbnailFilename,
		}
		if err := db.Contests().AddEntry(ctx, entry); err != nil {
			return fmt.Errorf("adding contest entry: %w", err)
		}
	}
	logger.Info("seeded contests", slog.Int("count", len(contests)))

	return nil
}

// demoJPEG renders a small random solid-color JPEG so every seeded photo
// is a real decodable image with a real thumbnail.
func demoJPEG(faker *gofakeit.Faker) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	fill := color.RGBA{
		R: uint8(faker.Number(0, 255)),
		G: uint8(faker.Number(0, 255)),
		B: uint8(faker.Number(0, 255)),
		A: 255,
	}
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory image never fails in practice.
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	return buf.Bytes()
}
