package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
)

type memStorage struct {
	files map[string][]byte
	types map[string]string
	err   error
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Put(_ context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[path] = b
	if opts != nil {
		m.types[path] = opts.ContentType
	}
	return nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	delete(m.files, path)
	delete(m.types, path)
	return nil
}

func (m *memStorage) URL(path string) string { return "/uploads/" + path }

func multipartRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req
}

func fixedImages(store Storage) *Images {
	im := New(store, nil)
	im.now = func() time.Time { return time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC) }
	return im
}

func TestPath(t *testing.T) {
	got := fixedImages(newMemStorage()).Path("Team Photo.JPG")
	if !regexp.MustCompile(`^images/2026/03/[0-9a-f]{8}\.jpg$`).MatchString(got) {
		t.Errorf("Path() = %q, want images/2026/03/<8 hex>.jpg", got)
	}
}

func TestFromRequest(t *testing.T) {
	t.Run("file upload wins", func(t *testing.T) {
		store := newMemStorage()
		req := multipartRequest(t, map[string]string{"imageUrl": "https://cdn.example.com/x.png"}, "hero.png", []byte("png-bytes"))

		st, err := fixedImages(store).FromRequest(req, "image", "imageUrl")
		if err != nil {
			t.Fatalf("FromRequest() error = %v", err)
		}
		if st == nil || st.URL != "/uploads/"+st.Path {
			t.Fatalf("FromRequest() = %+v, want stored upload", st)
		}
		if string(store.files[st.Path]) != "png-bytes" || store.types[st.Path] != "image/png" {
			t.Errorf("stored %q as %q", store.files[st.Path], store.types[st.Path])
		}
	})

	t.Run("url when no file", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"imageUrl": " https://cdn.example.com/x.png "}, "", nil)
		st, err := fixedImages(newMemStorage()).FromRequest(req, "image", "imageUrl")
		if err != nil {
			t.Fatalf("FromRequest() error = %v", err)
		}
		if st == nil || st.URL != "https://cdn.example.com/x.png" {
			t.Errorf("FromRequest() = %+v, want the linked URL", st)
		}
	})

	t.Run("neither keeps current", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"title": "x"}, "", nil)
		st, err := fixedImages(newMemStorage()).FromRequest(req, "image", "imageUrl")
		if err != nil || st != nil {
			t.Errorf("FromRequest() = %+v, %v; want nil, nil", st, err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		req := multipartRequest(t, nil, "notes.txt", []byte("hi"))
		if _, err := fixedImages(newMemStorage()).FromRequest(req, "image", "imageUrl"); !errors.Is(err, ErrNotImage) {
			t.Errorf("FromRequest() error = %v, want ErrNotImage", err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		store := newMemStorage()
		store.err = errors.New("bucket gone")
		req := multipartRequest(t, nil, "a.webp", []byte("x"))
		if _, err := fixedImages(store).FromRequest(req, "image", "imageUrl"); err == nil {
			t.Error("FromRequest() should fail when storage fails")
		}
	})
}

func TestStage_NotifiesOnUpload(t *testing.T) {
	var stored []Stored
	im := New(newMemStorage(), func(_ *http.Request, st Stored) { stored = append(stored, st) })

	req := multipartRequest(t, nil, "logo.svg", []byte("<svg/>"))
	p, err := im.Stage(req)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	u := p.ImageURL()
	if u == nil || len(stored) != 1 || *u != stored[0].URL {
		t.Errorf("ImageURL() = %v, stored = %+v", u, stored)
	}
	if stored[0].Size != int64(len("<svg/>")) {
		t.Errorf("Size = %d, want %d", stored[0].Size, len("<svg/>"))
	}
}

func TestPending_Discard(t *testing.T) {
	ctx := context.Background()

	store := newMemStorage()
	p, err := fixedImages(store).Stage(multipartRequest(t, nil, "team.png", []byte("png")))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	p.Discard(ctx)
	if len(store.files) != 0 {
		t.Errorf("files after Discard = %v, want none", store.files)
	}

	linked, err := fixedImages(store).Stage(multipartRequest(t, map[string]string{"imageUrl": "https://cdn.example.com/a.png"}, "", nil))
	if err != nil || linked == nil {
		t.Fatalf("Stage() = %v, %v; want the linked URL", linked, err)
	}
	linked.Discard(ctx)

	var none *Pending
	none.Discard(ctx)
	if none.ImageURL() != nil {
		t.Error("nil Pending ImageURL() != nil")
	}
}
