// internal/domain/models/post.go
package models

// Post is a blog article. Content is sanitized HTML.
type Post struct {
	ID          string `json:"id" yaml:"id"`
	Slug        string `json:"slug" yaml:"slug"`
	Image       string `json:"image" yaml:"image"`
	ImageHint   string `json:"imageHint" yaml:"imageHint"`
	Title       string `json:"title" yaml:"title"`
	Excerpt     string `json:"excerpt" yaml:"excerpt"`
	Date        string `json:"date" yaml:"date"` // YYYY-MM-DD
	Author      string `json:"author" yaml:"author"`
	Content     string `json:"content" yaml:"content"`
	RedirectURL string `json:"redirectUrl,omitempty" yaml:"redirectUrl,omitempty"`
}

// Path returns the public detail route for the post.
func (p Post) Path() string {
	return "/blog/" + p.Slug
}
