// internal/app/store/testimonials/testimonialstore.go
package testimonialstore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

const Name = "testimonials"

// Routes lists the pages that show testimonials.
var Routes = []string{"/", "/about", "/admin/testimonials"}

// Store provides access to client testimonials.
type Store struct {
	c *content.Collection[models.Testimonial]
}

func New(deps content.Deps) *Store {
	return &Store{c: content.NewCollection(deps, content.Kind[models.Testimonial]{
		Name:   Name,
		ID:     func(t *models.Testimonial) string { return t.ID },
		Routes: func(_, _ *models.Testimonial) []string { return Routes },
	})}
}

func (s *Store) Collection() *content.Collection[models.Testimonial] { return s.c }

type Input struct {
	Quote     string
	Author    string
	Company   string
	ImageHint string
	Image     string
}

type Patch struct {
	Quote     *string
	Author    *string
	Company   *string
	ImageHint *string
	Image     *string
}

type rules struct {
	Author    string `json:"author" validate:"required,min=2" label:"Author name"`
	Company   string `json:"company" validate:"required,min=2" label:"Company name"`
	Quote     string `json:"quote" validate:"required,min=10" label:"Quote"`
	ImageHint string `json:"imageHint" validate:"required,min=2" label:"Image hint"`
	Image     string `json:"image" validate:"required" label:"Photo"`
}

func validate(t models.Testimonial) error {
	return content.Check(rules{
		Author:    t.Author,
		Company:   t.Company,
		Quote:     t.Quote,
		ImageHint: t.ImageHint,
		Image:     t.Image,
	})
}

func (s *Store) All(ctx context.Context) ([]models.Testimonial, error) {
	return s.c.All(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (models.Testimonial, error) {
	return s.c.Get(ctx, id)
}

func (s *Store) Lookup(ctx context.Context, id string) (mo.Option[models.Testimonial], error) {
	return s.c.Lookup(ctx, id)
}

func (s *Store) Create(ctx context.Context, in Input) (models.Testimonial, error) {
	t := models.Testimonial{
		ID:        uuid.NewString(),
		Quote:     strings.TrimSpace(in.Quote),
		Author:    strings.TrimSpace(in.Author),
		Company:   strings.TrimSpace(in.Company),
		Image:     strings.TrimSpace(in.Image),
		ImageHint: strings.TrimSpace(in.ImageHint),
	}
	if err := validate(t); err != nil {
		return models.Testimonial{}, err
	}
	return s.c.Insert(ctx, t)
}

func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Testimonial, error) {
	return s.c.Update(ctx, id, func(t *models.Testimonial) error {
		content.AssignTrimmed(&t.Quote, patch.Quote)
		content.AssignTrimmed(&t.Author, patch.Author)
		content.AssignTrimmed(&t.Company, patch.Company)
		content.AssignTrimmed(&t.ImageHint, patch.ImageHint)
		if patch.Image != nil && strings.TrimSpace(*patch.Image) != "" {
			t.Image = strings.TrimSpace(*patch.Image)
		}
		return validate(*t)
	})
}

func (s *Store) Delete(ctx context.Context, id string) (models.Testimonial, error) {
	return s.c.Delete(ctx, id)
}
