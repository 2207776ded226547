// internal/domain/models/service.go
package models

// Service is an offering listed on the services pages.
// Icon names a UI icon; see ResolveIcon.
type Service struct {
	ID              string   `json:"id" yaml:"id"`
	Icon            string   `json:"icon" yaml:"icon"`
	Title           string   `json:"title" yaml:"title"`
	Slug            string   `json:"slug" yaml:"slug"`
	Description     string   `json:"description" yaml:"description"`
	LongDescription string   `json:"longDescription" yaml:"longDescription"`
	Points          []string `json:"points" yaml:"points"`
	Tags            []string `json:"tags" yaml:"tags"`
	Image           string   `json:"image" yaml:"image"`
	ImageHint       string   `json:"imageHint" yaml:"imageHint"`
	BgColor         string   `json:"bgColor,omitempty" yaml:"bgColor,omitempty"`
	TextColor       string   `json:"textColor,omitempty" yaml:"textColor,omitempty"`
}

// Path returns the public detail route for the service.
func (s Service) Path() string {
	return "/services/" + s.Slug
}
