package model

import "time"

// AnonymousUserID is the sentinel stored in likes.user_id when the caller
// is not logged in. Combined with the source IP it still gives anonymous
// visitors a stable like identity.
const AnonymousUserID = "anonymous"

// Like is one (photo, identity) like relationship. The identity is the
// (UserID, UserIP) pair; the UNIQUE(photo_id, user_id, user_ip) constraint
// makes toggling race-safe.
type Like struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photoId"`
	UserID    string    `json:"userId"`
	UserIP    string    `json:"userIp"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is an append-only comment on a photo. Comments are never edited
// or deleted; they disappear only when the photo is deleted (cascade).
type Comment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photoId"`
	Username  string    `json:"username"`
	Comment   string    `json:"comment"`
	UserIP    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
