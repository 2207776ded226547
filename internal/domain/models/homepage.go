// internal/domain/models/homepage.go
package models

// HomepageContent is the singleton document behind the home and about pages.
// Each section is edited independently.
type HomepageContent struct {
	Hero           HeroSection           `json:"hero" yaml:"hero"`
	About          AboutSection          `json:"about" yaml:"about"`
	AboutPage      AboutPageSection      `json:"aboutPage" yaml:"aboutPage"`
	WhyUs          WhyUsSection          `json:"whyUs" yaml:"whyUs"`
	WorkingProcess WorkingProcessSection `json:"workingProcess" yaml:"workingProcess"`
	FAQ            FAQSection            `json:"faq" yaml:"faq"`
}

type ValueText struct {
	Value string `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

type FeatureCard struct {
	Features []string `json:"features" yaml:"features"`
}

type HeroSection struct {
	Greeting     string      `json:"greeting" yaml:"greeting"`
	BrandName    string      `json:"brandName" yaml:"brandName"`
	Headline     string      `json:"headline" yaml:"headline"`
	Subheadline  string      `json:"subheadline" yaml:"subheadline"`
	CTAButton    string      `json:"ctaButton" yaml:"ctaButton"`
	StatCard1    ValueText   `json:"statCard1" yaml:"statCard1"`
	FeatureCard  FeatureCard `json:"featureCard" yaml:"featureCard"`
	ProgressCard ValueText   `json:"progressCard" yaml:"progressCard"`
}

type AwardCard struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

type AboutSection struct {
	Greeting    string    `json:"greeting" yaml:"greeting"`
	Headline    string    `json:"headline" yaml:"headline"`
	Subheadline string    `json:"subheadline" yaml:"subheadline"`
	AwardCard   AwardCard `json:"awardCard" yaml:"awardCard"`
}

// IconCard is a card with a UI icon name, used by the mission and why-us sections.
type IconCard struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type AboutPageSection struct {
	Greeting     string     `json:"greeting" yaml:"greeting"`
	Headline     string     `json:"headline" yaml:"headline"`
	Subheadline  string     `json:"subheadline" yaml:"subheadline"`
	MissionCards []IconCard `json:"missionCards" yaml:"missionCards"`
}

type WhyUsSection struct {
	Greeting    string     `json:"greeting" yaml:"greeting"`
	Headline    string     `json:"headline" yaml:"headline"`
	Subheadline string     `json:"subheadline" yaml:"subheadline"`
	Cards       []IconCard `json:"cards" yaml:"cards"`
}

type ProcessStep struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

type WorkingProcessSection struct {
	Greeting string        `json:"greeting" yaml:"greeting"`
	Headline string        `json:"headline" yaml:"headline"`
	Steps    []ProcessStep `json:"steps" yaml:"steps"`
}

type FAQItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type FAQSection struct {
	Headline    string    `json:"headline" yaml:"headline"`
	Subheadline string    `json:"subheadline" yaml:"subheadline"`
	Items       []FAQItem `json:"items" yaml:"items"`
}

// DefaultHomepageContent is seeded when no homepage document exists.
func DefaultHomepageContent() HomepageContent {
	return HomepageContent{
		Hero: HeroSection{
			Greeting:     "Hello, we are",
			BrandName:    "WaveTechify",
			Headline:     "Digital products that move your business",
			Subheadline:  "Websites, apps and cloud solutions built for growth.",
			CTAButton:    "Get Started",
			StatCard1:    ValueText{Value: "100+", Text: "Projects delivered"},
			FeatureCard:  FeatureCard{Features: []string{"Web Development", "Mobile Apps", "Cloud"}},
			ProgressCard: ValueText{Value: "98%", Text: "Client satisfaction rate"},
		},
		About: AboutSection{
			Greeting:    "About us",
			Headline:    "We build for the long run",
			Subheadline: "A small team with a big portfolio.",
			AwardCard:   AwardCard{Title: "Award", Text: "Recognized for quality delivery"},
		},
		AboutPage: AboutPageSection{
			Greeting:    "Who we are",
			Headline:    "Our mission",
			Subheadline: "Technology that serves people.",
			MissionCards: []IconCard{
				{Icon: "Target", Title: "Focus", Description: "We solve the problem you actually have."},
			},
		},
		WhyUs: WhyUsSection{
			Greeting:    "Why us",
			Headline:    "Reasons clients stay",
			Subheadline: "Clear communication and dependable delivery.",
			Cards: []IconCard{
				{Icon: "ShieldCheck", Title: "Reliable", Description: "We ship what we promise."},
			},
		},
		WorkingProcess: WorkingProcessSection{
			Greeting: "How we work",
			Headline: "Our process",
			Steps: []ProcessStep{
				{Title: "Discover", Content: "We learn your goals."},
				{Title: "Build", Content: "We design and develop."},
				{Title: "Launch", Content: "We ship and support."},
			},
		},
		FAQ: FAQSection{
			Headline:    "Frequently asked questions",
			Subheadline: "Answers to common questions.",
			Items: []FAQItem{
				{Question: "How long does a website take?", Answer: "Most business sites take 4-8 weeks."},
			},
		},
	}
}
