// internal/app/store/techstack/techstackstore.go
package techstackstore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
)

const Name = "techstack"

// Routes lists the pages that show the tech stack.
var Routes = []string{"/", "/admin/tech-stack"}

// Store provides access to the tech stack strip. New entries go last.
type Store struct {
	c *content.Collection[models.Technology]
}

func New(deps content.Deps) *Store {
	return &Store{c: content.NewCollection(deps, content.Kind[models.Technology]{
		Name:   Name,
		ID:     func(t *models.Technology) string { return t.ID },
		Append: true,
		Routes: func(_, _ *models.Technology) []string { return Routes },
	})}
}

func (s *Store) Collection() *content.Collection[models.Technology] { return s.c }

type rules struct {
	Name string `json:"name" validate:"required,min=1" label:"Name"`
}

func (s *Store) All(ctx context.Context) ([]models.Technology, error) {
	return s.c.All(ctx)
}

// Create appends a technology.
func (s *Store) Create(ctx context.Context, name string) (models.Technology, error) {
	name = strings.TrimSpace(name)
	if err := content.Check(rules{Name: name}); err != nil {
		return models.Technology{}, err
	}
	return s.c.Insert(ctx, models.Technology{ID: uuid.NewString(), Name: name})
}

// Rename changes a technology's name.
func (s *Store) Rename(ctx context.Context, id, name string) (models.Technology, error) {
	name = strings.TrimSpace(name)
	if err := content.Check(rules{Name: name}); err != nil {
		return models.Technology{}, err
	}
	return s.c.Update(ctx, id, func(t *models.Technology) error {
		t.Name = name
		return nil
	})
}

// Save creates when id is empty and renames otherwise, matching the single
// add-or-edit form in the admin.
func (s *Store) Save(ctx context.Context, id, name string) (models.Technology, error) {
	if strings.TrimSpace(id) == "" {
		return s.Create(ctx, name)
	}
	return s.Rename(ctx, id, name)
}

func (s *Store) Delete(ctx context.Context, id string) (models.Technology, error) {
	return s.c.Delete(ctx, id)
}
