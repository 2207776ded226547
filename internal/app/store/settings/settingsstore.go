// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/domain/models"
)

const Name = "settings"

// Store provides access to the site settings.
// There is a single settings document per site; every page shows it, so
// any change invalidates all routes.
type Store struct {
	d *content.Document[models.SiteSettings]
}

// New creates a new settings store.
func New(deps content.Deps) *Store {
	return &Store{d: content.NewDocument(deps, content.DocKind[models.SiteSettings]{
		Name:    Name,
		Default: models.DefaultSiteSettings,
		Routes:  []string{content.AllRoutes},
	})}
}

func (s *Store) Document() *content.Document[models.SiteSettings] { return s.d }

// Get returns the site settings.
// If no settings exist, returns default settings.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	return s.d.Get(ctx)
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	return s.d.Exists(ctx)
}

// UpdateInput holds the fields to change. Nil fields keep their value;
// an empty social URL removes the link.
type UpdateInput struct {
	ContactEmail  *string
	ContactPhone  *string
	OfficeAddress *string
	TwitterURL    *string
	LinkedInURL   *string
	GitHubURL     *string
}

type rules struct {
	ContactEmail  string `json:"contactEmail" validate:"required,email" label:"Contact email"`
	ContactPhone  string `json:"contactPhone" validate:"required,min=10" label:"Phone number"`
	OfficeAddress string `json:"officeAddress" validate:"required,min=10" label:"Address"`
	TwitterURL    string `json:"twitterUrl" validate:"urlorempty" label:"Twitter URL"`
	LinkedInURL   string `json:"linkedinUrl" validate:"urlorempty" label:"LinkedIn URL"`
	GitHubURL     string `json:"githubUrl" validate:"urlorempty" label:"GitHub URL"`
}

func validate(st models.SiteSettings) error {
	return content.Check(rules(st))
}

// Save replaces the settings after validating them.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	settings = trim(settings)
	if err := validate(settings); err != nil {
		return models.SiteSettings{}, err
	}
	return s.d.Set(ctx, settings)
}

// Upsert merges input into the current settings (or the defaults) and
// saves the validated result.
func (s *Store) Upsert(ctx context.Context, input UpdateInput) (models.SiteSettings, error) {
	return s.d.Update(ctx, func(st *models.SiteSettings) error {
		content.AssignTrimmed(&st.ContactEmail, input.ContactEmail)
		content.AssignTrimmed(&st.ContactPhone, input.ContactPhone)
		content.AssignTrimmed(&st.OfficeAddress, input.OfficeAddress)
		content.AssignTrimmed(&st.TwitterURL, input.TwitterURL)
		content.AssignTrimmed(&st.LinkedInURL, input.LinkedInURL)
		content.AssignTrimmed(&st.GitHubURL, input.GitHubURL)
		return validate(*st)
	})
}

func trim(st models.SiteSettings) models.SiteSettings {
	st.ContactEmail = strings.TrimSpace(st.ContactEmail)
	st.ContactPhone = strings.TrimSpace(st.ContactPhone)
	st.OfficeAddress = strings.TrimSpace(st.OfficeAddress)
	st.TwitterURL = strings.TrimSpace(st.TwitterURL)
	st.LinkedInURL = strings.TrimSpace(st.LinkedInURL)
	st.GitHubURL = strings.TrimSpace(st.GitHubURL)
	return st
}
