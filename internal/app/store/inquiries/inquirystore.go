// internal/app/store/inquiries/inquirystore.go
package inquirystore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/system/inputval"
	"github.com/dalemusser/wavesite/internal/app/system/normalize"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
)

const Name = "inquiries"

// Routes lists the pages that show inquiries.
var Routes = []string{"/admin/inquiries"}

const dateLayout = "2006-01-02"

// Store records messages from the public forms.
type Store struct {
	c   *content.Collection[models.Inquiry]
	now func() time.Time
}

func New(deps content.Deps) *Store {
	return &Store{
		c: content.NewCollection(deps, content.Kind[models.Inquiry]{
			Name:   Name,
			ID:     func(i *models.Inquiry) string { return i.ID },
			Routes: func(_, _ *models.Inquiry) []string { return Routes },
		}),
		now: time.Now,
	}
}

func (s *Store) Collection() *content.Collection[models.Inquiry] { return s.c }

// ContactInput is the full contact page form.
type ContactInput struct {
	Name          string `json:"name" validate:"required,min=2" label:"Name"`
	Email         string `json:"email" validate:"required,email" label:"Email"`
	Subject       string `json:"subject" validate:"required,min=5" label:"Subject"`
	Message       string `json:"message" validate:"required,min=10" label:"Message"`
	PreferredDate string `json:"preferredDate" label:"Preferred date"`
}

// HomepageInput is the short form on the home page and blog sidebar.
type HomepageInput struct {
	Name    string `json:"name" validate:"required,min=2" label:"Name"`
	Email   string `json:"email" validate:"required,email" label:"Email"`
	Phone   string `json:"phone" label:"Phone"`
	Company string `json:"company" label:"Company"`
	Message string `json:"message" validate:"required,min=10" label:"Message"`
}

// PricingInput is the plan enquiry form on the pricing page.
type PricingInput struct {
	Name     string `json:"name" validate:"required,min=2" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Phone    string `json:"phone" validate:"required,min=10" label:"Phone number"`
	Message  string `json:"message" label:"Message"`
	PlanName string `json:"planName" validate:"required,min=1" label:"Plan"`
}

func (s *Store) All(ctx context.Context) ([]models.Inquiry, error) {
	return s.c.All(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (models.Inquiry, error) {
	return s.c.Get(ctx, id)
}

// SubmitContact records a contact page message.
func (s *Store) SubmitContact(ctx context.Context, in ContactInput) (models.Inquiry, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	res := inputval.Validate(in)
	preferred, ok := normalizeDate(in.PreferredDate)
	if !ok {
		res.Add("preferredDate", "Preferred date", "Preferred date must be a valid date.")
	}
	if res.HasErrors() {
		return models.Inquiry{}, content.NewValidationError(res)
	}

	return s.insert(ctx, models.Inquiry{
		Name:          in.Name,
		Email:         in.Email,
		Subject:       in.Subject,
		Message:       in.Message,
		PreferredDate: preferred,
	})
}

// SubmitHomepage records a short-form message. The subject names the
// company when one was given and the phone number leads the message.
func (s *Store) SubmitHomepage(ctx context.Context, in HomepageInput) (models.Inquiry, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := content.Check(in); err != nil {
		return models.Inquiry{}, err
	}

	company := orDefault(in.Company, "Homepage Form")
	phone := orDefault(in.Phone, "N/A")
	return s.insert(ctx, models.Inquiry{
		Name:    in.Name,
		Email:   in.Email,
		Subject: "Inquiry from " + company,
		Message: "Phone: " + phone + "\n\n" + in.Message,
	})
}

// SubmitPricing records an enquiry about a specific plan.
func (s *Store) SubmitPricing(ctx context.Context, in PricingInput) (models.Inquiry, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PlanName = strings.TrimSpace(in.PlanName)
	if err := content.Check(in); err != nil {
		return models.Inquiry{}, err
	}

	return s.insert(ctx, models.Inquiry{
		Name:    in.Name,
		Email:   in.Email,
		Subject: "Pricing Inquiry: " + in.PlanName,
		Message: "Phone/WhatsApp: " + in.Phone + "\n\n" + orDefault(in.Message, "No message provided."),
	})
}

func (s *Store) Delete(ctx context.Context, id string) (models.Inquiry, error) {
	return s.c.Delete(ctx, id)
}

// Summaries returns the short form of every inquiry, newest first.
func (s *Store) Summaries(ctx context.Context) ([]string, error) {
	all, err := s.c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(all))
	for i, inq := range all {
		out[i] = inq.Summary()
	}
	return out, nil
}

func (s *Store) insert(ctx context.Context, inq models.Inquiry) (models.Inquiry, error) {
	inq.ID = uuid.NewString()
	inq.Date = s.now().UTC().Format(dateLayout)
	return s.c.Insert(ctx, inq)
}

// normalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// YYYY-MM-DD. Blank is valid and stays blank.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout), true
	}
	return "", false
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
