// internal/app/store/homepage/homepagestore.go
package homepagestore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/system/inputval"
	"github.com/dalemusser/wavesite/internal/domain/models"
)

const Name = "homepage"

// Routes lists the pages built from homepage content.
var Routes = []string{"/", "/about"}

// Store provides access to the homepage content document.
type Store struct {
	d *content.Document[models.HomepageContent]
}

func New(deps content.Deps) *Store {
	return &Store{d: content.NewDocument(deps, content.DocKind[models.HomepageContent]{
		Name:    Name,
		Default: models.DefaultHomepageContent,
		Clone:   content.CloneJSON[models.HomepageContent],
		Routes:  Routes,
	})}
}

func (s *Store) Document() *content.Document[models.HomepageContent] { return s.d }

// Get returns the homepage content, or the built-in default.
func (s *Store) Get(ctx context.Context) (models.HomepageContent, error) {
	return s.d.Get(ctx)
}

// Exists reports whether homepage content has been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	return s.d.Exists(ctx)
}

// Form is the flat homepage editor form. Features is a comma list; the
// card, step and FAQ fields each hold a JSON array.
type Form struct {
	HeroGreeting       string `json:"heroGreeting" validate:"required,min=1" label:"Greeting"`
	HeroBrandName      string `json:"heroBrandName" validate:"required,min=1" label:"Brand name"`
	HeroHeadline       string `json:"heroHeadline" validate:"required,min=10" label:"Headline"`
	HeroSubheadline    string `json:"heroSubheadline" validate:"required,min=20" label:"Subheadline"`
	HeroCTAButton      string `json:"heroCtaButton" validate:"required,min=5" label:"CTA button text"`
	HeroStatCard1Value string `json:"heroStatCard1Value" validate:"required,min=1" label:"Stat value"`
	HeroStatCard1Text  string `json:"heroStatCard1Text" validate:"required,min=5" label:"Stat text"`
	HeroFeatures       string `json:"heroFeatures" label:"Features"`
	HeroProgressValue  string `json:"heroProgressValue" validate:"required,min=1" label:"Progress value"`
	HeroProgressText   string `json:"heroProgressText" validate:"required,min=10" label:"Progress text"`

	AboutGreeting    string `json:"aboutGreeting" validate:"required,min=1" label:"About greeting"`
	AboutHeadline    string `json:"aboutHeadline" validate:"required,min=1" label:"About headline"`
	AboutSubheadline string `json:"aboutSubheadline" validate:"required,min=1" label:"About subheadline"`
	AboutAwardTitle  string `json:"aboutAwardTitle" validate:"required,min=1" label:"Award title"`
	AboutAwardText   string `json:"aboutAwardText" validate:"required,min=1" label:"Award text"`

	AboutPageGreeting     string `json:"aboutPageGreeting" validate:"required,min=1" label:"About page greeting"`
	AboutPageHeadline     string `json:"aboutPageHeadline" validate:"required,min=1" label:"About page headline"`
	AboutPageSubheadline  string `json:"aboutPageSubheadline" validate:"required,min=1" label:"About page subheadline"`
	AboutPageMissionCards string `json:"aboutPageMissionCards" label:"Mission cards"`

	WhyUsGreeting    string `json:"whyUsGreeting" validate:"required,min=1" label:"Why us greeting"`
	WhyUsHeadline    string `json:"whyUsHeadline" validate:"required,min=1" label:"Why us headline"`
	WhyUsSubheadline string `json:"whyUsSubheadline" validate:"required,min=1" label:"Why us subheadline"`
	WhyUsCards       string `json:"whyUsCards" label:"Why us cards"`

	WorkingProcessGreeting string `json:"workingProcessGreeting" validate:"required,min=1" label:"Process greeting"`
	WorkingProcessHeadline string `json:"workingProcessHeadline" validate:"required,min=1" label:"Process headline"`
	WorkingProcessSteps    string `json:"workingProcessSteps" label:"Process steps"`

	FAQHeadline    string `json:"faqHeadline" validate:"required,min=1" label:"FAQ headline"`
	FAQSubheadline string `json:"faqSubheadline" validate:"required,min=1" label:"FAQ subheadline"`
	FAQItems       string `json:"faqItems" label:"FAQ items"`
}

type iconCard struct {
	Icon        string `json:"icon" label:"Icon"`
	Title       string `json:"title" label:"Title"`
	Description string `json:"description" label:"Description"`
}

type processStep struct {
	Title   string `json:"title" label:"Title"`
	Content string `json:"content" label:"Content"`
}

type faqItem struct {
	Question string `json:"question" validate:"required,min=1" label:"FAQ question"`
	Answer   string `json:"answer" validate:"required,min=1" label:"FAQ answer"`
}

// Parse validates the form and builds the content it describes. Malformed
// JSON in any list field is a validation error, never an empty list.
func Parse(f Form) (models.HomepageContent, error) {
	res := inputval.Validate(f)

	mission := inputval.ParseJSONList[iconCard](f.AboutPageMissionCards, "aboutPageMissionCards", "Mission cards", res)
	why := inputval.ParseJSONList[iconCard](f.WhyUsCards, "whyUsCards", "Why us cards", res)
	steps := inputval.ParseJSONList[processStep](f.WorkingProcessSteps, "workingProcessSteps", "Process steps", res)
	faqs := inputval.ParseJSONList[faqItem](f.FAQItems, "faqItems", "FAQ items", res)

	if res.HasErrors() {
		return models.HomepageContent{}, content.NewValidationError(res)
	}

	hc := models.HomepageContent{
		Hero: models.HeroSection{
			Greeting:     strings.TrimSpace(f.HeroGreeting),
			BrandName:    strings.TrimSpace(f.HeroBrandName),
			Headline:     strings.TrimSpace(f.HeroHeadline),
			Subheadline:  strings.TrimSpace(f.HeroSubheadline),
			CTAButton:    strings.TrimSpace(f.HeroCTAButton),
			StatCard1:    models.ValueText{Value: strings.TrimSpace(f.HeroStatCard1Value), Text: strings.TrimSpace(f.HeroStatCard1Text)},
			FeatureCard:  models.FeatureCard{Features: inputval.SplitList(f.HeroFeatures)},
			ProgressCard: models.ValueText{Value: strings.TrimSpace(f.HeroProgressValue), Text: strings.TrimSpace(f.HeroProgressText)},
		},
		About: models.AboutSection{
			Greeting:    strings.TrimSpace(f.AboutGreeting),
			Headline:    strings.TrimSpace(f.AboutHeadline),
			Subheadline: strings.TrimSpace(f.AboutSubheadline),
			AwardCard:   models.AwardCard{Title: strings.TrimSpace(f.AboutAwardTitle), Text: strings.TrimSpace(f.AboutAwardText)},
		},
		AboutPage: models.AboutPageSection{
			Greeting:     strings.TrimSpace(f.AboutPageGreeting),
			Headline:     strings.TrimSpace(f.AboutPageHeadline),
			Subheadline:  strings.TrimSpace(f.AboutPageSubheadline),
			MissionCards: toIconCards(mission),
		},
		WhyUs: models.WhyUsSection{
			Greeting:    strings.TrimSpace(f.WhyUsGreeting),
			Headline:    strings.TrimSpace(f.WhyUsHeadline),
			Subheadline: strings.TrimSpace(f.WhyUsSubheadline),
			Cards:       toIconCards(why),
		},
		WorkingProcess: models.WorkingProcessSection{
			Greeting: strings.TrimSpace(f.WorkingProcessGreeting),
			Headline: strings.TrimSpace(f.WorkingProcessHeadline),
			Steps:    make([]models.ProcessStep, len(steps)),
		},
		FAQ: models.FAQSection{
			Headline:    strings.TrimSpace(f.FAQHeadline),
			Subheadline: strings.TrimSpace(f.FAQSubheadline),
			Items:       make([]models.FAQItem, len(faqs)),
		},
	}
	for i, st := range steps {
		hc.WorkingProcess.Steps[i] = models.ProcessStep(st)
	}
	for i, q := range faqs {
		hc.FAQ.Items[i] = models.FAQItem(q)
	}
	return hc, nil
}

// FormFrom renders content back into editor form values.
func FormFrom(hc models.HomepageContent) Form {
	return Form{
		HeroGreeting:       hc.Hero.Greeting,
		HeroBrandName:      hc.Hero.BrandName,
		HeroHeadline:       hc.Hero.Headline,
		HeroSubheadline:    hc.Hero.Subheadline,
		HeroCTAButton:      hc.Hero.CTAButton,
		HeroStatCard1Value: hc.Hero.StatCard1.Value,
		HeroStatCard1Text:  hc.Hero.StatCard1.Text,
		HeroFeatures:       inputval.JoinList(hc.Hero.FeatureCard.Features),
		HeroProgressValue:  hc.Hero.ProgressCard.Value,
		HeroProgressText:   hc.Hero.ProgressCard.Text,

		AboutGreeting:    hc.About.Greeting,
		AboutHeadline:    hc.About.Headline,
		AboutSubheadline: hc.About.Subheadline,
		AboutAwardTitle:  hc.About.AwardCard.Title,
		AboutAwardText:   hc.About.AwardCard.Text,

		AboutPageGreeting:     hc.AboutPage.Greeting,
		AboutPageHeadline:     hc.AboutPage.Headline,
		AboutPageSubheadline:  hc.AboutPage.Subheadline,
		AboutPageMissionCards: jsonList(hc.AboutPage.MissionCards),

		WhyUsGreeting:    hc.WhyUs.Greeting,
		WhyUsHeadline:    hc.WhyUs.Headline,
		WhyUsSubheadline: hc.WhyUs.Subheadline,
		WhyUsCards:       jsonList(hc.WhyUs.Cards),

		WorkingProcessGreeting: hc.WorkingProcess.Greeting,
		WorkingProcessHeadline: hc.WorkingProcess.Headline,
		WorkingProcessSteps:    jsonList(hc.WorkingProcess.Steps),

		FAQHeadline:    hc.FAQ.Headline,
		FAQSubheadline: hc.FAQ.Subheadline,
		FAQItems:       jsonList(hc.FAQ.Items),
	}
}

// Update validates the submitted form and replaces the homepage content.
func (s *Store) Update(ctx context.Context, f Form) (models.HomepageContent, error) {
	hc, err := Parse(f)
	if err != nil {
		return models.HomepageContent{}, err
	}
	return s.d.Set(ctx, hc)
}

// Save validates content built elsewhere (an import, the seed) and stores it.
func (s *Store) Save(ctx context.Context, hc models.HomepageContent) (models.HomepageContent, error) {
	return s.Update(ctx, FormFrom(hc))
}

func toIconCards(in []iconCard) []models.IconCard {
	out := make([]models.IconCard, len(in))
	for i, c := range in {
		out[i] = models.IconCard(c)
	}
	return out
}

func jsonList[T any](items []T) string {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
