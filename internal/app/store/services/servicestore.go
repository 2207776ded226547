// internal/app/store/services/servicestore.go
package servicestore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Name is the snapshot name of the services collection.
const Name = "services"

// Store provides access to service offerings.
type Store struct {
	c *content.Collection[models.Service]
}

// New creates a service store.
func New(deps content.Deps) *Store {
	return &Store{c: content.NewCollection(deps, content.Kind[models.Service]{
		Name:     Name,
		ID:       func(s *models.Service) string { return s.ID },
		Key:      func(s *models.Service) string { return s.Slug },
		KeyField: "slug",
		Routes:   Routes,
	})}
}

// Routes lists the pages that show a service.
func Routes(before, after *models.Service) []string {
	routes := []string{"/services", "/admin/services"}
	if before != nil {
		routes = append(routes, before.Path())
	}
	if after != nil {
		routes = append(routes, after.Path())
	}
	return routes
}

func (s *Store) Collection() *content.Collection[models.Service] { return s.c }

// Input is a new service. Icon is stored as given; unknown names are
// resolved to a fallback when rendered.
type Input struct {
	Title           string
	Slug            string
	Icon            string
	Description     string
	LongDescription string
	Points          []string
	Tags            []string
	ImageHint       string
	BgColor         string
	TextColor       string
	Image           string
}

// Patch holds the fields to change on update.
type Patch struct {
	Title           *string
	Slug            *string
	Icon            *string
	Description     *string
	LongDescription *string
	Points          *[]string
	Tags            *[]string
	ImageHint       *string
	BgColor         *string
	TextColor       *string
	Image           *string
}

type rules struct {
	Title           string `json:"title" validate:"required,min=5" label:"Title"`
	Slug            string `json:"slug" validate:"required,min=5,slug" label:"Slug"`
	Icon            string `json:"icon" validate:"required,min=2" label:"Icon"`
	Description     string `json:"description" validate:"required,min=10" label:"Description"`
	LongDescription string `json:"longDescription" validate:"required,min=50" label:"Long description"`
	ImageHint       string `json:"imageHint" validate:"required,min=2" label:"Image hint"`
	Image           string `json:"image" validate:"required" label:"Service image"`
}

func validate(sv models.Service) error {
	return content.Check(rules{
		Title:           sv.Title,
		Slug:            sv.Slug,
		Icon:            sv.Icon,
		Description:     sv.Description,
		LongDescription: sv.LongDescription,
		ImageHint:       sv.ImageHint,
		Image:           sv.Image,
	})
}

func (s *Store) All(ctx context.Context) ([]models.Service, error) {
	return s.c.All(ctx)
}

func (s *Store) Get(ctx context.Context, key string) (models.Service, error) {
	return s.c.Get(ctx, key)
}

func (s *Store) Lookup(ctx context.Context, key string) (mo.Option[models.Service], error) {
	return s.c.Lookup(ctx, key)
}

// Create validates and stores a new service.
func (s *Store) Create(ctx context.Context, in Input) (models.Service, error) {
	sv := models.Service{
		ID:              uuid.NewString(),
		Icon:            strings.TrimSpace(in.Icon),
		Title:           strings.TrimSpace(in.Title),
		Slug:            strings.TrimSpace(in.Slug),
		Description:     strings.TrimSpace(in.Description),
		LongDescription: strings.TrimSpace(in.LongDescription),
		Points:          nonNil(in.Points),
		Tags:            nonNil(in.Tags),
		Image:           strings.TrimSpace(in.Image),
		ImageHint:       strings.TrimSpace(in.ImageHint),
		BgColor:         strings.TrimSpace(in.BgColor),
		TextColor:       strings.TrimSpace(in.TextColor),
	}
	if err := validate(sv); err != nil {
		return models.Service{}, err
	}
	return s.c.Insert(ctx, sv)
}

// Update merges patch into the service and re-validates it.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Service, error) {
	return s.c.Update(ctx, id, func(sv *models.Service) error {
		content.AssignTrimmed(&sv.Title, patch.Title)
		content.AssignTrimmed(&sv.Slug, patch.Slug)
		content.AssignTrimmed(&sv.Icon, patch.Icon)
		content.AssignTrimmed(&sv.Description, patch.Description)
		content.AssignTrimmed(&sv.LongDescription, patch.LongDescription)
		content.AssignTrimmed(&sv.ImageHint, patch.ImageHint)
		content.AssignTrimmed(&sv.BgColor, patch.BgColor)
		content.AssignTrimmed(&sv.TextColor, patch.TextColor)
		if patch.Points != nil {
			sv.Points = nonNil(*patch.Points)
		}
		if patch.Tags != nil {
			sv.Tags = nonNil(*patch.Tags)
		}
		if patch.Image != nil && strings.TrimSpace(*patch.Image) != "" {
			sv.Image = strings.TrimSpace(*patch.Image)
		}
		return validate(*sv)
	})
}

func (s *Store) Delete(ctx context.Context, id string) (models.Service, error) {
	return s.c.Delete(ctx, id)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
