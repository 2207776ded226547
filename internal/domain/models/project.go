// internal/domain/models/project.go
package models

// Project is a portfolio case study.
type Project struct {
	ID              string   `json:"id" yaml:"id"`
	Slug            string   `json:"slug" yaml:"slug"`
	Image           string   `json:"image" yaml:"image"`
	ImageHint       string   `json:"imageHint" yaml:"imageHint"`
	Category        string   `json:"category" yaml:"category"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	LongDescription string   `json:"longDescription" yaml:"longDescription"`
	Client          string   `json:"client" yaml:"client"`
	Location        string   `json:"location" yaml:"location"`
	CompletedDate   string   `json:"completedDate" yaml:"completedDate"`
	Requirements    []string `json:"requirements" yaml:"requirements"`
	Solution        string   `json:"solution" yaml:"solution"`
}

// Path returns the public detail route for the project.
func (p Project) Path() string {
	return "/portfolio/" + p.Slug
}
