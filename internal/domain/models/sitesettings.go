// internal/domain/models/sitesettings.go
package models

// SiteSettings holds the contact details and social links shown in the
// global layout. There is exactly one SiteSettings document.
type SiteSettings struct {
	ContactEmail  string `json:"contactEmail" yaml:"contactEmail"`
	ContactPhone  string `json:"contactPhone" yaml:"contactPhone"`
	OfficeAddress string `json:"officeAddress" yaml:"officeAddress"`
	TwitterURL    string `json:"twitterUrl" yaml:"twitterUrl"`
	LinkedInURL   string `json:"linkedinUrl" yaml:"linkedinUrl"`
	GitHubURL     string `json:"githubUrl" yaml:"githubUrl"`
}

// DefaultSiteSettings is used when no settings document has been saved yet.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ContactEmail:  "hello@wavetechify.in",
		ContactPhone:  "+91 00000 00000",
		OfficeAddress: "Update the office address in admin settings.",
	}
}
