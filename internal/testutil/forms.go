package testutil

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/storage"
)

// NewFormRequest creates an admin request with a urlencoded form body.
func NewFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithAdmin(req)
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field    string
	Filename string
	Data     []byte
}

// NewMultipartRequest creates an admin request with a multipart body
// holding fields and files.
func NewMultipartRequest(method, target string, fields url.Values, files ...FormFile) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			_ = mw.WriteField(k, v)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			panic(err)
		}
		_, _ = fw.Write(f.Data)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return WithAdmin(req)
}

// MemStorage is an in-memory file store for upload tests.
type MemStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{files: map[string][]byte{}}
}

func (m *MemStorage) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = b
	return nil
}

func (m *MemStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *MemStorage) URL(path string) string { return "/uploads/" + path }

// Files returns the stored paths.
func (m *MemStorage) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	return out
}
