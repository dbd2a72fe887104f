package model

import "time"

// Contest statuses. Status is derived from the start/end dates at creation
// time and recomputed when contests are read, so an "active" contest whose
// end date has passed reads back as "ended".
const (
	ContestUpcoming = "upcoming"
	ContestActive   = "active"
	ContestEnded    = "ended"
)

// Contest is a photo contest, optionally scoped to a club.
//
// A contest with ClubID set and IsPublic false is visible and enterable
// only by members of that club. Prizes is free-form (one string per place).
type Contest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	EntryFee    int       `json:"entryFee"`
	MaxEntries  int       `json:"maxEntries"`
	Prizes      []string  `json:"prizes"`
	ClubID      string    `json:"clubId,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`

	// Display-only join columns.
	ClubName     string `json:"clubName,omitempty"`
	TotalEntries int    `json:"totalEntries"`
}

// StatusAt derives the contest status from its date window.
func (c *Contest) StatusAt(now time.Time) string {
	switch {
	case now.Before(c.StartDate):
		return ContestUpcoming
	case now.After(c.EndDate):
		return ContestEnded
	default:
		return ContestActive
	}
}

// ContestEntry is one submitted photo in a contest.
type ContestEntry struct {
	ID                string    `json:"id"`
	ContestID         string    `json:"contestId"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Filename          string    `json:"filename"`
	ThumbnailFilename string    `json:"thumbnailFilename"`
	CreatedAt         time.Time `json:"createdAt"`

	// Display-only join columns.
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}
