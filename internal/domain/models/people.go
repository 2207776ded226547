// internal/domain/models/people.go
package models

// TeamMember is a person shown in the team section.
type TeamMember struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"`
	Image     string `json:"image" yaml:"image"`
	ImageHint string `json:"imageHint" yaml:"imageHint"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID        string `json:"id" yaml:"id"`
	Quote     string `json:"quote" yaml:"quote"`
	Author    string `json:"author" yaml:"author"`
	Company   string `json:"company" yaml:"company"`
	Image     string `json:"image" yaml:"image"`
	ImageHint string `json:"imageHint" yaml:"imageHint"`
}

// Technology is an entry in the tech stack strip.
type Technology struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
