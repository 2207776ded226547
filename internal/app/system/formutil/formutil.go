// Package formutil reads admin form submissions into partial updates.
//
// Admin editors post multipart forms (so an image can ride along) or
// url-encoded forms. A field that is absent from the submission is "keep
// the current value"; a field that is present but blank is a real change.
//
//	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
//	patch := poststore.Patch{
//		Title: f.Opt("title"),
//		Tags:  f.OptList("tags"),
//	}
package formutil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/system/inputval"
)

// MaxUploadSize bounds a multipart submission including its image.
const MaxUploadSize = 8 << 20

// ErrTooLarge is returned when the submission exceeds the size limit.
var ErrTooLarge = errors.New("form submission is too large")

// Form is a parsed submission.
type Form struct {
	r *http.Request
}

// Parse reads a multipart or url-encoded body of at most maxBytes.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrTooLarge
		}
		return nil, err
	}
	return &Form{r: r}, nil
}

// Has reports whether name was submitted, even if blank.
func (f *Form) Has(name string) bool {
	if _, ok := f.r.PostForm[name]; ok {
		return true
	}
	if f.r.MultipartForm != nil {
		_, ok := f.r.MultipartForm.Value[name]
		return ok
	}
	return false
}

// String returns the trimmed value of name, or "".
func (f *Form) String(name string) string {
	return strings.TrimSpace(f.r.PostFormValue(name))
}

// Opt returns the trimmed value of name, or nil when it was not submitted.
func (f *Form) Opt(name string) *string {
	if !f.Has(name) {
		return nil
	}
	v := f.String(name)
	return &v
}

// List splits a comma-separated field.
func (f *Form) List(name string) []string {
	return inputval.SplitList(f.r.PostFormValue(name))
}

// OptList is List returning nil when the field was not submitted.
func (f *Form) OptList(name string) *[]string {
	if !f.Has(name) {
		return nil
	}
	v := f.List(name)
	return &v
}

// Request returns the underlying request, e.g. to read an uploaded file.
func (f *Form) Request() *http.Request { return f.r }
