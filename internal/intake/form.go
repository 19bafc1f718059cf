package intake

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/submission"
)

// formFields lists the field names in the form's declared order.
var formFields = []string{
	"blogTitle",
	"authorName",
	"email",
	"blogContent",
	"category",
	"termsAgreed",
}

// Form is a mutable draft mirroring a blank submission form. Values are set
// field by field; Payload validates the draft and produces the FormPayload.
type Form struct {
	values map[string]string
	agreed bool
}

func NewForm() *Form {
	return &Form{values: make(map[string]string)}
}

// Fields returns the field names in form order.
func (f *Form) Fields() []string {
	fields := make([]string, len(formFields))
	copy(fields, formFields)
	return fields
}

// Set assigns a raw value to a named field. termsAgreed accepts any value
// strconv.ParseBool understands.
func (f *Form) Set(field, value string) error {
	switch field {
	case "termsAgreed":
		agreed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("field %s: %q is not a boolean", field, value)
		}
		f.agreed = agreed
		return nil
	case "blogTitle", "authorName", "email", "blogContent", "category":
		f.values[field] = value
		return nil
	default:
		return fmt.Errorf("unknown field %q", field)
	}
}

// Payload validates the draft against the form schema and returns the
// resulting FormPayload. The draft is left untouched.
func (f *Form) Payload() (submission.FormPayload, error) {
	doc := map[string]any{
		"blogTitle":   f.values["blogTitle"],
		"authorName":  f.values["authorName"],
		"email":       f.values["email"],
		"blogContent": f.values["blogContent"],
		"category":    f.values["category"],
		"termsAgreed": f.agreed,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return submission.FormPayload{}, fmt.Errorf("encoding form draft: %w", err)
	}
	return ParsePayload(data)
}

// Reset restores the blank state. This is the target of the post-submission
// "clear the form" signal.
func (f *Form) Reset() {
	f.values = make(map[string]string)
	f.agreed = false
}
