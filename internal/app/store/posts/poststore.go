// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Name is the snapshot name of the blog collection.
const Name = "posts"

// Store provides access to blog posts.
type Store struct {
	c   *content.Collection[models.Post]
	now func() time.Time
}

// New creates a post store over the shared content deps.
func New(deps content.Deps) *Store {
	return &Store{
		c: content.NewCollection(deps, content.Kind[models.Post]{
			Name:     Name,
			ID:       func(p *models.Post) string { return p.ID },
			Key:      func(p *models.Post) string { return p.Slug },
			KeyField: "slug",
			Routes:   Routes,
		}),
		now: time.Now,
	}
}

// Routes lists the pages that show a post. Both the old and the new detail
// page are stale when a slug changes.
func Routes(before, after *models.Post) []string {
	routes := []string{"/blog", "/admin/blog"}
	if before != nil {
		routes = append(routes, before.Path())
	}
	if after != nil {
		routes = append(routes, after.Path())
	}
	return routes
}

// Collection exposes the underlying collection for import, export and reload.
func (s *Store) Collection() *content.Collection[models.Post] { return s.c }

// Input is a new post as submitted by the editor. Image is the URL of the
// uploaded or linked featured image.
type Input struct {
	Title       string
	Slug        string
	Author      string
	ImageHint   string
	Excerpt     string
	Content     string
	RedirectURL string
	Image       string
}

// Patch holds the fields to change on update. Nil fields are kept.
type Patch struct {
	Title       *string
	Slug        *string
	Author      *string
	ImageHint   *string
	Excerpt     *string
	Content     *string
	RedirectURL *string
	Image       *string
}

type rules struct {
	Title       string `json:"title" validate:"required,min=5" label:"Title"`
	Slug        string `json:"slug" validate:"required,min=5,slug" label:"Slug"`
	Author      string `json:"author" validate:"required,min=2" label:"Author"`
	ImageHint   string `json:"imageHint" validate:"required,min=2" label:"Image hint"`
	Excerpt     string `json:"excerpt" validate:"required,min=10" label:"Excerpt"`
	Content     string `json:"content" validate:"required,min=100" label:"Content"`
	RedirectURL string `json:"redirectUrl" validate:"urlorempty" label:"Redirect URL"`
	Image       string `json:"image" validate:"required" label:"Featured image"`
}

func validate(p models.Post) error {
	return content.Check(rules{
		Title:       p.Title,
		Slug:        p.Slug,
		Author:      p.Author,
		ImageHint:   p.ImageHint,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		RedirectURL: p.RedirectURL,
		Image:       p.Image,
	})
}

// All returns every post, newest first.
func (s *Store) All(ctx context.Context) ([]models.Post, error) {
	return s.c.All(ctx)
}

// Get returns the post with the given id or slug.
func (s *Store) Get(ctx context.Context, key string) (models.Post, error) {
	return s.c.Get(ctx, key)
}

// Lookup is Get without a not-found error.
func (s *Store) Lookup(ctx context.Context, key string) (mo.Option[models.Post], error) {
	return s.c.Lookup(ctx, key)
}

// Create validates and stores a new post dated today.
func (s *Store) Create(ctx context.Context, in Input) (models.Post, error) {
	p := models.Post{
		ID:          uuid.NewString(),
		Slug:        strings.TrimSpace(in.Slug),
		Image:       strings.TrimSpace(in.Image),
		ImageHint:   strings.TrimSpace(in.ImageHint),
		Title:       strings.TrimSpace(in.Title),
		Excerpt:     strings.TrimSpace(in.Excerpt),
		Date:        s.now().UTC().Format("2006-01-02"),
		Author:      strings.TrimSpace(in.Author),
		Content:     htmlsanitize.Sanitize(strings.TrimSpace(in.Content)),
		RedirectURL: strings.TrimSpace(in.RedirectURL),
	}
	if err := validate(p); err != nil {
		return models.Post{}, err
	}
	return s.c.Insert(ctx, p)
}

// Update merges patch into the post and re-validates the result.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Post, error) {
	return s.c.Update(ctx, id, func(p *models.Post) error {
		content.AssignTrimmed(&p.Title, patch.Title)
		content.AssignTrimmed(&p.Slug, patch.Slug)
		content.AssignTrimmed(&p.Author, patch.Author)
		content.AssignTrimmed(&p.ImageHint, patch.ImageHint)
		content.AssignTrimmed(&p.Excerpt, patch.Excerpt)
		content.AssignTrimmed(&p.RedirectURL, patch.RedirectURL)
		if patch.Image != nil && strings.TrimSpace(*patch.Image) != "" {
			p.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.Content != nil {
			p.Content = htmlsanitize.Sanitize(strings.TrimSpace(*patch.Content))
		}
		return validate(*p)
	})
}

// Delete removes a post and returns it.
func (s *Store) Delete(ctx context.Context, id string) (models.Post, error) {
	return s.c.Delete(ctx, id)
}
