// Package assist exposes the generative helpers: article drafts for the
// editor, and related-content picks for visitors.
package assist

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	inquirystore "github.com/dalemusser/wavesite/internal/app/store/inquiries"
	poststore "github.com/dalemusser/wavesite/internal/app/store/posts"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	helper      *assist.Helper
	posts       *poststore.Store
	inquiries   *inquirystore.Store
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(
	helper *assist.Helper,
	posts *poststore.Store,
	inquiries *inquirystore.Store,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		helper:      helper,
		posts:       posts,
		inquiries:   inquiries,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
	}
}

// AdminRoutes mounts at /api/admin/assist.
//   - POST /draft {"title"} - article HTML for a title
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/draft", h.draft)
	return r
}

// PublicRoutes mounts at /api/site/assist. Generated answers vary between
// calls and are not cached.
//   - GET  /recommend                        - posts matching recent inquiries
//   - POST /suggest {"currentUrl","activity"} - titles related to a page
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/recommend", h.recommend)
	r.Post("/suggest", h.suggest)
	return r
}

type draftRequest struct {
	Title string `json:"title"`
}

type draftResponse struct {
	Content string `json:"content"`
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		jsonutil.Invalid(w, "Title is required.", map[string]string{"title": "Title is required."})
		return
	}

	html, err := h.helper.DraftArticle(r.Context(), title)
	h.auditLogger.DraftGenerated(r.Context(), r, title, err == nil)
	if err != nil {
		h.errLog.Write(w, r, "failed to draft article", err)
		return
	}
	jsonutil.OK(w, draftResponse{Content: html})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load posts", err)
		return
	}
	summaries, err := h.inquiries.Summaries(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load inquiries", err)
		return
	}

	candidates := make([]assist.Candidate, len(posts))
	for i, p := range posts {
		candidates[i] = assist.Candidate{URL: p.Path(), Title: p.Title}
	}

	picked, err := h.helper.Recommend(r.Context(), candidates, summaries)
	if err != nil {
		h.errLog.Write(w, r, "failed to recommend posts", err)
		return
	}
	jsonutil.OK(w, picked)
}

type suggestRequest struct {
	CurrentURL string `json:"currentUrl"`
	Activity   string `json:"activity"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	req.CurrentURL = strings.TrimSpace(req.CurrentURL)
	req.Activity = strings.TrimSpace(req.Activity)
	fields := map[string]string{}
	if req.CurrentURL == "" {
		fields["currentUrl"] = "Current URL is required."
	}
	if req.Activity == "" {
		fields["activity"] = "Activity is required."
	}
	if len(fields) > 0 {
		jsonutil.Invalid(w, "Current URL and activity are required.", fields)
		return
	}

	suggestions, err := h.helper.SuggestRelated(r.Context(), req.CurrentURL, req.Activity)
	if err != nil {
		h.errLog.Write(w, r, "failed to suggest content", err)
		return
	}
	jsonutil.OK(w, suggestions)
}
