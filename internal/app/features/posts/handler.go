// Package posts serves the blog: admin editing under /api/admin/posts and
// the cached public read API under /api/site/posts.
package posts

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	poststore "github.com/dalemusser/wavesite/internal/app/store/posts"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides blog post handlers.
type Handler struct {
	store       *poststore.Store
	images      *uploads.Images
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new posts Handler.
func NewHandler(
	store *poststore.Store,
	images *uploads.Images,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:       store,
		images:      images,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list posts", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load post", err)
		return
	}
	jsonutil.OK(w, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse post form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store post image", err)
		return
	}
	image := img.ImageURL()

	in := poststore.Input{
		Title:       f.String("title"),
		Slug:        f.String("slug"),
		Author:      f.String("author"),
		ImageHint:   f.String("imageHint"),
		Excerpt:     f.String("excerpt"),
		Content:     f.String("content"),
		RedirectURL: f.String("redirectUrl"),
	}
	if image != nil {
		in.Image = *image
	}

	p, err := h.store.Create(r.Context(), in)
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to create post", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, poststore.Name, p.ID)
	jsonutil.Done(w, http.StatusCreated, "Post created", p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse post form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store post image", err)
		return
	}
	image := img.ImageURL()

	p, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), poststore.Patch{
		Title:       f.Opt("title"),
		Slug:        f.Opt("slug"),
		Author:      f.Opt("author"),
		ImageHint:   f.Opt("imageHint"),
		Excerpt:     f.Opt("excerpt"),
		Content:     f.Opt("content"),
		RedirectURL: f.Opt("redirectUrl"),
		Image:       image,
	})
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to update post", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, poststore.Name, p.ID)
	jsonutil.Done(w, http.StatusOK, "Post updated", p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete post", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, poststore.Name, p.ID)
	jsonutil.Done(w, http.StatusOK, "Post deleted", nil)
}

// publicPost is a post as served to the site, with its body ready to render.
func publicPost(p models.Post) models.Post {
	p.Content = htmlsanitize.Body(p.Content)
	return p
}

func (h *Handler) publicList(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list posts", err)
		return
	}
	out := make([]models.Post, len(all))
	for i, p := range all {
		out[i] = publicPost(p)
	}
	jsonutil.OK(w, out)
}

// publicShow answers by slug only. Responses are cached under the slug's
// route, which is what a change to the post invalidates; an id would key an
// entry nothing drops.
func (h *Handler) publicShow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	opt, err := h.store.Lookup(r.Context(), slug)
	if err != nil {
		h.errLog.Write(w, r, "failed to load post", err)
		return
	}
	p, ok := opt.Get()
	if !ok || p.Slug != slug {
		jsonutil.NotFound(w, "Post not found")
		return
	}
	jsonutil.OK(w, publicPost(p))
}
