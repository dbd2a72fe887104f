package model

import "time"

// Photo represents an uploaded image and its stored derivatives.
//
// Filename and ThumbnailFilename are opaque names inside the upload
// directory; the media pipeline owns the actual files. Only Title and
// Description are mutable after upload.
type Photo struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Tags              string    `json:"tags"`
	FeaturedStream    bool      `json:"featuredStream"`
	Filename          string    `json:"filename"`
	ThumbnailFilename string    `json:"thumbnailFilename"`
	OriginalName      string    `json:"originalName"`
	FileSize          int64     `json:"fileSize"`
	MimeType          string    `json:"mimeType"`
	UploadDate        time.Time `json:"uploadDate"`
	UserID            string    `json:"userId"`
	CreatedAt         time.Time `json:"createdAt"`
}
