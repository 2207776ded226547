// Package sitemap serves /sitemap.xml from the current content.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when no site URL is configured.
const DefaultBaseURL = "https://www.wavetechify.in"

// staticPages are listed ahead of the content pages. The home page is
// priority 1.0; the rest 0.8.
var staticPages = []string{"", "/about", "/pricing", "/services", "/portfolio", "/blog", "/contact", "/terms", "/privacy", "/faq"}

// Sources supplies the content listed in the sitemap.
type Sources struct {
	Posts    func(context.Context) ([]models.Post, error)
	Services func(context.Context) ([]models.Service, error)
	Projects func(context.Context) ([]models.Project, error)
}

type Handler struct {
	baseURL string
	src     Sources
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(baseURL string, src Sources, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Handler{baseURL: baseURL, src: src, errLog: errLog, logger: logger, now: time.Now}
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Build assembles the sitemap entries.
func (h *Handler) Build(ctx context.Context) ([]entry, error) {
	today := h.now().UTC().Format("2006-01-02")

	out := make([]entry, 0, len(staticPages))
	for _, p := range staticPages {
		e := entry{Loc: h.baseURL + p, LastMod: today, ChangeFreq: "monthly", Priority: "0.8"}
		if p == "" {
			e.ChangeFreq = "yearly"
			e.Priority = "1.0"
		}
		out = append(out, e)
	}

	posts, err := h.src.Posts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		lastMod := p.Date
		if lastMod == "" {
			lastMod = today
		}
		out = append(out, entry{Loc: h.baseURL + p.Path(), LastMod: lastMod, ChangeFreq: "weekly", Priority: "0.9"})
	}

	services, err := h.src.Services(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		out = append(out, entry{Loc: h.baseURL + s.Path(), LastMod: today, ChangeFreq: "monthly", Priority: "0.7"})
	}

	projects, err := h.src.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		out = append(out, entry{Loc: h.baseURL + p.Path(), LastMod: today, ChangeFreq: "monthly", Priority: "0.7"})
	}
	return out, nil
}

// ServeHTTP writes the sitemap.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Build(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to build sitemap", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: entries}); err != nil {
		h.logger.Warn("failed to write sitemap", zap.Error(err))
	}
}
