// internal/app/store/team/teamstore.go
package teamstore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Name is the snapshot name of the team collection.
const Name = "team"

// Routes lists the pages that show team members.
var Routes = []string{"/", "/about", "/admin/team"}

// Store provides access to team members.
type Store struct {
	c *content.Collection[models.TeamMember]
}

// New creates a team store.
func New(deps content.Deps) *Store {
	return &Store{c: content.NewCollection(deps, content.Kind[models.TeamMember]{
		Name:   Name,
		ID:     func(m *models.TeamMember) string { return m.ID },
		Routes: func(_, _ *models.TeamMember) []string { return Routes },
	})}
}

func (s *Store) Collection() *content.Collection[models.TeamMember] { return s.c }

// Input is a new team member.
type Input struct {
	Name      string
	Role      string
	Twitter   string
	LinkedIn  string
	ImageHint string
	Image     string
}

// Patch holds the fields to change on update.
type Patch struct {
	Name      *string
	Role      *string
	Twitter   *string
	LinkedIn  *string
	ImageHint *string
	Image     *string
}

type rules struct {
	Name      string `json:"name" validate:"required,min=2" label:"Name"`
	Role      string `json:"role" validate:"required,min=5" label:"Role"`
	Twitter   string `json:"twitter" validate:"urlorempty" label:"Twitter URL"`
	LinkedIn  string `json:"linkedin" validate:"urlorempty" label:"LinkedIn URL"`
	ImageHint string `json:"imageHint" validate:"required,min=2" label:"Image hint"`
	Image     string `json:"image" validate:"required" label:"Photo"`
}

func validate(m models.TeamMember) error {
	return content.Check(rules{
		Name:      m.Name,
		Role:      m.Role,
		Twitter:   m.Twitter,
		LinkedIn:  m.LinkedIn,
		ImageHint: m.ImageHint,
		Image:     m.Image,
	})
}

func (s *Store) All(ctx context.Context) ([]models.TeamMember, error) {
	return s.c.All(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (models.TeamMember, error) {
	return s.c.Get(ctx, id)
}

func (s *Store) Lookup(ctx context.Context, id string) (mo.Option[models.TeamMember], error) {
	return s.c.Lookup(ctx, id)
}

// Create validates and stores a new member at the top of the list.
func (s *Store) Create(ctx context.Context, in Input) (models.TeamMember, error) {
	m := models.TeamMember{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Role:      strings.TrimSpace(in.Role),
		Image:     strings.TrimSpace(in.Image),
		ImageHint: strings.TrimSpace(in.ImageHint),
		Twitter:   strings.TrimSpace(in.Twitter),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
	}
	if err := validate(m); err != nil {
		return models.TeamMember{}, err
	}
	return s.c.Insert(ctx, m)
}

// Update merges patch into the member and re-validates it.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.TeamMember, error) {
	return s.c.Update(ctx, id, func(m *models.TeamMember) error {
		content.AssignTrimmed(&m.Name, patch.Name)
		content.AssignTrimmed(&m.Role, patch.Role)
		content.AssignTrimmed(&m.Twitter, patch.Twitter)
		content.AssignTrimmed(&m.LinkedIn, patch.LinkedIn)
		content.AssignTrimmed(&m.ImageHint, patch.ImageHint)
		if patch.Image != nil && strings.TrimSpace(*patch.Image) != "" {
			m.Image = strings.TrimSpace(*patch.Image)
		}
		return validate(*m)
	})
}

func (s *Store) Delete(ctx context.Context, id string) (models.TeamMember, error) {
	return s.c.Delete(ctx, id)
}
