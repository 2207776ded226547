// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Name is the snapshot name of the portfolio collection.
const Name = "projects"

// Store provides access to portfolio projects.
type Store struct {
	c *content.Collection[models.Project]
}

// New creates a project store.
func New(deps content.Deps) *Store {
	return &Store{c: content.NewCollection(deps, content.Kind[models.Project]{
		Name:     Name,
		ID:       func(p *models.Project) string { return p.ID },
		Key:      func(p *models.Project) string { return p.Slug },
		KeyField: "slug",
		Routes:   Routes,
	})}
}

// Routes lists the pages that show a project.
func Routes(before, after *models.Project) []string {
	routes := []string{"/portfolio", "/admin/projects"}
	if before != nil {
		routes = append(routes, before.Path())
	}
	if after != nil {
		routes = append(routes, after.Path())
	}
	return routes
}

// Collection exposes the underlying collection.
func (s *Store) Collection() *content.Collection[models.Project] { return s.c }

// Input is a new project. Requirements is already split into items.
type Input struct {
	Title           string
	Slug            string
	Category        string
	Client          string
	Location        string
	CompletedDate   string
	Description     string
	LongDescription string
	Solution        string
	ImageHint       string
	Requirements    []string
	Image           string
}

// Patch holds the fields to change on update.
type Patch struct {
	Title           *string
	Slug            *string
	Category        *string
	Client          *string
	Location        *string
	CompletedDate   *string
	Description     *string
	LongDescription *string
	Solution        *string
	ImageHint       *string
	Requirements    *[]string
	Image           *string
}

type rules struct {
	Title           string `json:"title" validate:"required,min=5" label:"Title"`
	Slug            string `json:"slug" validate:"required,min=5,slug" label:"Slug"`
	Category        string `json:"category" validate:"required,min=3" label:"Category"`
	Client          string `json:"client" validate:"required,min=2" label:"Client"`
	Location        string `json:"location" validate:"required,min=2" label:"Location"`
	CompletedDate   string `json:"completedDate" validate:"required,min=5" label:"Completed date"`
	Description     string `json:"description" validate:"required,min=10" label:"Description"`
	LongDescription string `json:"longDescription" validate:"required,min=50" label:"Long description"`
	Solution        string `json:"solution" validate:"required,min=50" label:"Solution"`
	ImageHint       string `json:"imageHint" validate:"required,min=2" label:"Image hint"`
	Image           string `json:"image" validate:"required" label:"Project image"`
}

func validate(p models.Project) error {
	return content.Check(rules{
		Title:           p.Title,
		Slug:            p.Slug,
		Category:        p.Category,
		Client:          p.Client,
		Location:        p.Location,
		CompletedDate:   p.CompletedDate,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Solution:        p.Solution,
		ImageHint:       p.ImageHint,
		Image:           p.Image,
	})
}

func (s *Store) All(ctx context.Context) ([]models.Project, error) {
	return s.c.All(ctx)
}

func (s *Store) Get(ctx context.Context, key string) (models.Project, error) {
	return s.c.Get(ctx, key)
}

func (s *Store) Lookup(ctx context.Context, key string) (mo.Option[models.Project], error) {
	return s.c.Lookup(ctx, key)
}

// Create validates and stores a new project at the top of the portfolio.
func (s *Store) Create(ctx context.Context, in Input) (models.Project, error) {
	p := models.Project{
		ID:              uuid.NewString(),
		Slug:            strings.TrimSpace(in.Slug),
		Image:           strings.TrimSpace(in.Image),
		ImageHint:       strings.TrimSpace(in.ImageHint),
		Category:        strings.TrimSpace(in.Category),
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		LongDescription: strings.TrimSpace(in.LongDescription),
		Client:          strings.TrimSpace(in.Client),
		Location:        strings.TrimSpace(in.Location),
		CompletedDate:   strings.TrimSpace(in.CompletedDate),
		Requirements:    nonNil(in.Requirements),
		Solution:        strings.TrimSpace(in.Solution),
	}
	if err := validate(p); err != nil {
		return models.Project{}, err
	}
	return s.c.Insert(ctx, p)
}

// Update merges patch into the project and re-validates it.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Project, error) {
	return s.c.Update(ctx, id, func(p *models.Project) error {
		content.AssignTrimmed(&p.Title, patch.Title)
		content.AssignTrimmed(&p.Slug, patch.Slug)
		content.AssignTrimmed(&p.Category, patch.Category)
		content.AssignTrimmed(&p.Client, patch.Client)
		content.AssignTrimmed(&p.Location, patch.Location)
		content.AssignTrimmed(&p.CompletedDate, patch.CompletedDate)
		content.AssignTrimmed(&p.Description, patch.Description)
		content.AssignTrimmed(&p.LongDescription, patch.LongDescription)
		content.AssignTrimmed(&p.Solution, patch.Solution)
		content.AssignTrimmed(&p.ImageHint, patch.ImageHint)
		if patch.Requirements != nil {
			p.Requirements = nonNil(*patch.Requirements)
		}
		if patch.Image != nil && strings.TrimSpace(*patch.Image) != "" {
			p.Image = strings.TrimSpace(*patch.Image)
		}
		return validate(*p)
	})
}

func (s *Store) Delete(ctx context.Context, id string) (models.Project, error) {
	return s.c.Delete(ctx, id)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
