// internal/app/system/uploads/uploads.go
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// ErrNotImage is returned for an upload whose extension is not an image.
var ErrNotImage = errors.New("uploaded file is not a supported image")

// Storage is the part of the file store used for images.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".avif": "image/avif",
}

// Form fields that carry a record image.
const (
	FileField = "image"
	URLField  = "imageUrl"
)

// Images stores uploaded images under images/YYYY/MM/<id><ext>.
type Images struct {
	store    Storage
	onStored func(*http.Request, Stored)
	now      func() time.Time
}

// New creates an image uploader over store. onStored, when not nil, is
// called after each successful upload.
func New(store Storage, onStored func(*http.Request, Stored)) *Images {
	return &Images{store: store, onStored: onStored, now: time.Now}
}

// Stored describes a saved image.
type Stored struct {
	Path string
	URL  string
	Size int64
}

// Path builds the storage path for an upload named filename.
func (im *Images) Path(filename string) string {
	now := im.now().UTC()
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String()[:8], ext)
}

// Save stores one uploaded file.
func (im *Images) Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (Stored, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return Stored{}, ErrNotImage
	}

	path := im.Path(header.Filename)
	if err := im.store.Put(ctx, path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		return Stored{}, fmt.Errorf("failed to upload image: %w", err)
	}
	return Stored{Path: path, URL: im.store.URL(path), Size: header.Size}, nil
}

// FromRequest resolves the record image of a parsed form submission: an
// uploaded file in field wins, then a URL in urlField. A nil result means
// neither was supplied and the caller keeps the current image.
func (im *Images) FromRequest(r *http.Request, field, urlField string) (*Stored, error) {
	if r.MultipartForm != nil {
		if file, header, err := r.FormFile(field); err == nil {
			defer file.Close()
			if header.Size > 0 {
				st, err := im.Save(r.Context(), file, header)
				if err != nil {
					return nil, err
				}
				if im.onStored != nil {
					im.onStored(r, st)
				}
				return &st, nil
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, err
		}
	}
	if u := strings.TrimSpace(r.PostFormValue(urlField)); u != "" {
		return &Stored{URL: u}, nil
	}
	return nil, nil
}

// Pending is a submission's image before its record is committed. A nil
// *Pending means the submission carried no image.
type Pending struct {
	Stored
	im *Images
}

// Stage is FromRequest over the standard image fields. Callers Discard the
// result when the record it was uploaded for is rejected.
func (im *Images) Stage(r *http.Request) (*Pending, error) {
	st, err := im.FromRequest(r, FileField, URLField)
	if err != nil || st == nil {
		return nil, err
	}
	return &Pending{Stored: *st, im: im}, nil
}

// ImageURL is the URL to store on the record, or nil to keep the current one.
func (p *Pending) ImageURL() *string {
	if p == nil {
		return nil
	}
	u := p.URL
	return &u
}

// Discard deletes an uploaded file. Linked URLs are left alone. Failure only
// leaves an unreferenced object behind, so it is not reported.
func (p *Pending) Discard(ctx context.Context) {
	if p == nil || p.Path == "" {
		return
	}
	_ = p.im.store.Delete(ctx, p.Path)
}
