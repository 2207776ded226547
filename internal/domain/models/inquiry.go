// internal/domain/models/inquiry.go
package models

// Inquiry is a message submitted through one of the public forms.
type Inquiry struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Email         string `json:"email" yaml:"email"`
	Subject       string `json:"subject" yaml:"subject"`
	Message       string `json:"message" yaml:"message"`
	Date          string `json:"date" yaml:"date"` // YYYY-MM-DD
	PreferredDate string `json:"preferredDate,omitempty" yaml:"preferredDate,omitempty"`
}

// Summary is the short form fed to the recommendation model:
// the subject followed by the first 100 characters of the message.
func (i Inquiry) Summary() string {
	msg := []rune(i.Message)
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return "Subject: " + i.Subject + ", Message: " + string(msg)
}
