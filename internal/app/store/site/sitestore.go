// internal/app/store/site/sitestore.go
package sitestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	homepagestore "github.com/dalemusser/wavesite/internal/app/store/homepage"
	inquirystore "github.com/dalemusser/wavesite/internal/app/store/inquiries"
	poststore "github.com/dalemusser/wavesite/internal/app/store/posts"
	pricingstore "github.com/dalemusser/wavesite/internal/app/store/pricing"
	projectstore "github.com/dalemusser/wavesite/internal/app/store/projects"
	servicestore "github.com/dalemusser/wavesite/internal/app/store/services"
	settingsstore "github.com/dalemusser/wavesite/internal/app/store/settings"
	teamstore "github.com/dalemusser/wavesite/internal/app/store/team"
	techstackstore "github.com/dalemusser/wavesite/internal/app/store/techstack"
	testimonialstore "github.com/dalemusser/wavesite/internal/app/store/testimonials"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/samber/lo"
)

// ErrUnknownCollection is returned for a name that is not a content type.
var ErrUnknownCollection = errors.New("unknown collection")

// Stores groups every content store of one site over shared deps.
type Stores struct {
	Posts        *poststore.Store
	Projects     *projectstore.Store
	Services     *servicestore.Store
	Team         *teamstore.Store
	Testimonials *testimonialstore.Store
	TechStack    *techstackstore.Store
	Inquiries    *inquirystore.Store
	Pricing      *pricingstore.Store
	Settings     *settingsstore.Store
	Homepage     *homepagestore.Store

	entries map[string]entry
}

// entry is the type-erased view of one store used for reload, export and
// import by name.
type entry struct {
	reload     func(context.Context) error
	export     func(context.Context) (any, error)
	importJSON func(context.Context, []byte) error
}

// New builds every store over deps.
func New(deps content.Deps) *Stores {
	s := &Stores{
		Posts:        poststore.New(deps),
		Projects:     projectstore.New(deps),
		Services:     servicestore.New(deps),
		Team:         teamstore.New(deps),
		Testimonials: testimonialstore.New(deps),
		TechStack:    techstackstore.New(deps),
		Inquiries:    inquirystore.New(deps),
		Pricing:      pricingstore.New(deps),
		Settings:     settingsstore.New(deps),
		Homepage:     homepagestore.New(deps),
	}
	s.entries = map[string]entry{
		poststore.Name:        listEntry(s.Posts.Collection()),
		projectstore.Name:     listEntry(s.Projects.Collection()),
		servicestore.Name:     listEntry(s.Services.Collection()),
		teamstore.Name:        listEntry(s.Team.Collection()),
		testimonialstore.Name: listEntry(s.Testimonials.Collection()),
		techstackstore.Name:   listEntry(s.TechStack.Collection()),
		inquirystore.Name:     listEntry(s.Inquiries.Collection()),
		pricingstore.Name:     docEntry(s.Pricing.Document(), nil),
		settingsstore.Name: docEntry(s.Settings.Document(), func(ctx context.Context, v models.SiteSettings) error {
			_, err := s.Settings.Save(ctx, v)
			return err
		}),
		homepagestore.Name: docEntry(s.Homepage.Document(), func(ctx context.Context, v models.HomepageContent) error {
			_, err := s.Homepage.Save(ctx, v)
			return err
		}),
	}
	return s
}

func listEntry[T any](c *content.Collection[T]) entry {
	return entry{
		reload: c.Reload,
		export: func(ctx context.Context) (any, error) { return c.All(ctx) },
		importJSON: func(ctx context.Context, data []byte) error {
			items := []T{}
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode %s: %w", c.Name(), err)
			}
			return c.Replace(ctx, items)
		},
	}
}

// docEntry imports through save when given, so singletons with validation
// rules are checked before they are stored.
func docEntry[T any](d *content.Document[T], save func(context.Context, T) error) entry {
	if save == nil {
		save = func(ctx context.Context, v T) error {
			_, err := d.Set(ctx, v)
			return err
		}
	}
	return entry{
		reload: d.Reload,
		export: func(ctx context.Context) (any, error) { return d.Get(ctx) },
		importJSON: func(ctx context.Context, data []byte) error {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				return fmt.Errorf("decode %s: %w", d.Name(), err)
			}
			return save(ctx, v)
		},
	}
}

// Names lists the content types in sorted order.
func (s *Stores) Names() []string {
	names := lo.Keys(s.entries)
	sort.Strings(names)
	return names
}

// Has reports whether name is a content type.
func (s *Stores) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Reload re-reads every content type from the backend. Every type is
// attempted; the errors of those that failed are joined.
func (s *Stores) Reload(ctx context.Context) error {
	var errs []error
	for _, name := range s.Names() {
		if err := s.entries[name].reload(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReloadNamed re-reads one content type.
func (s *Stores) ReloadNamed(ctx context.Context, name string) error {
	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return e.reload(ctx)
}

// Export returns the current value of one content type: a slice for list
// types and the document for singletons.
func (s *Stores) Export(ctx context.Context, name string) (any, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return e.export(ctx)
}

// Import replaces one content type with the JSON-encoded value in data.
func (s *Stores) Import(ctx context.Context, name string, data []byte) error {
	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return e.importJSON(ctx, data)
}
