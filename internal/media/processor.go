// Package media owns the image pipeline: validating uploads, writing the
// full-size file, and generating thumbnails.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	// Side-effect imports: register decoders with image.Decode so uploads
	// in any of the accepted formats can be read.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/rs/xid"

	"github.com/lenb209/PhotoApp/internal/apperror"
)

const (
	// MaxUploadSize caps uploads at 10 MB. Handlers also pass this to
	// http.MaxBytesReader so oversized bodies are cut off at the wire.
	MaxUploadSize = 10 << 20

	// MaxDimension is the largest accepted width or height in pixels.
	MaxDimension = 2048

	// ThumbnailSize is the bounding box for generated thumbnails. The
	// aspect ratio is preserved; neither side exceeds this.
	ThumbnailSize = 400

	thumbnailQuality = 85
)

// allowedTypes maps accepted MIME types to the file extension stored on
// disk. Anything else is rejected before decoding.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// StoredImage describes the files the processor wrote for one upload.
type StoredImage struct {
	Filename          string
	ThumbnailFilename string
	Size              int64
	MimeType          string
}

// Processor validates and stores uploaded images under a single directory.
type Processor struct {
	uploadDir string
}

// NewProcessor creates the upload directory if needed and returns a
// Processor rooted there.
func NewProcessor(uploadDir string) (*Processor, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("media: creating upload dir: %w", err)
	}
	return &Processor{uploadDir: uploadDir}, nil
}

// Store validates the upload and writes the original plus a thumbnail.
//
// Validation order matters: size first (cheap), then MIME type, then a
// full decode. The decode both proves the bytes are a real image of the
// declared kind and gives us the dimensions to check against MaxDimension.
// A PNG renamed to .jpg fails here rather than polluting the gallery.
func (p *Processor) Store(r io.Reader, declaredType string) (*StoredImage, error) {
	ext, ok := allowedTypes[declaredType]
	if !ok {
		return nil, apperror.ValidationFailed("photo", "only JPEG, PNG, and GIF images are accepted")
	}

	// Read one byte past the limit to distinguish "exactly at the limit"
	// from "over it".
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("media: reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, apperror.ValidationFailed("photo", "image exceeds the 10MB size limit")
	}
	if len(data) == 0 {
		return nil, apperror.ValidationFailed("photo", "uploaded file is empty")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.ValidationFailed("photo", "file is not a valid image")
	}
	if "image/"+format != declaredType {
		return nil, apperror.ValidationFailed("photo", "file content does not match its declared type")
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		return nil, apperror.ValidationFailed("photo",
			fmt.Sprintf("image dimensions exceed %dx%d pixels", MaxDimension, MaxDimension))
	}

	id := xid.New().String()
	filename := id + ext
	thumbFilename := "thumb_" + id + ".jpg"

	if err := os.WriteFile(filepath.Join(p.uploadDir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("media: writing image: %w", err)
	}

	if err := p.writeThumbnail(img, thumbFilename); err != nil {
		// Keep the directory consistent: no original without a thumbnail.
		os.Remove(filepath.Join(p.uploadDir, filename))
		return nil, err
	}

	return &StoredImage{
		Filename:          filename,
		ThumbnailFilename: thumbFilename,
		Size:              int64(len(data)),
		MimeType:          declaredType,
	}, nil
}

// writeThumbnail scales img into the thumbnail bounding box and writes it
// as JPEG. resize.Thumbnail preserves aspect ratio and never upscales.
func (p *Processor) writeThumbnail(img image.Image, filename string) error {
	thumb := resize.Thumbnail(ThumbnailSize, ThumbnailSize, img, resize.Lanczos3)

	f, err := os.Create(filepath.Join(p.uploadDir, filename))
	if err != nil {
		return fmt.Errorf("media: creating thumbnail: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return fmt.Errorf("media: encoding thumbnail: %w", err)
	}
	return nil
}

// Remove deletes the stored files for a photo. Missing files are not an
// error; the rows are authoritative, the files best-effort.
func (p *Processor) Remove(filenames ...string) {
	for _, name := range filenames {
		if name == "" {
			continue
		}
		os.Remove(filepath.Join(p.uploadDir, name))
	}
}

// Path returns the on-disk path for a stored filename. filepath.Base
// strips any directory components so a crafted filename cannot escape the
// upload directory.
func (p *Processor) Path(filename string) string {
	return filepath.Join(p.uploadDir, filepath.Base(filename))
}

// Dir returns the upload directory, used by the server to mount the
// static file route.
func (p *Processor) Dir() string {
	return p.uploadDir
}
