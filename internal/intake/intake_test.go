package intake

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/submission"
)

const validDoc = `{
  "blogTitle": "A Study of Merge Policies",
  "authorName": "Mei Tanaka",
  "email": "mei@example.com",
  "blogContent": "Segment merging trades write amplification for read latency.",
  "category": "storage",
  "termsAgreed": true
}`

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload([]byte(validDoc))
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}

	want := submission.FormPayload{
		BlogTitle:   "A Study of Merge Policies",
		AuthorName:  "Mei Tanaka",
		Email:       "mei@example.com",
		BlogContent: "Segment merging trades write amplification for read latency.",
		Category:    "storage",
		TermsAgreed: true,
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePayloadFailures(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{
			name:      "missing required field",
			doc:       `{"blogTitle": "t", "authorName": "a", "email": "a@b.co", "blogContent": "c", "category": "x"}`,
			wantField: "",
		},
		{
			name: "wrong type for termsAgreed",
			doc: `{"blogTitle": "t", "authorName": "a", "email": "a@b.co",
				"blogContent": "c", "category": "x", "termsAgreed": "yes"}`,
			wantField: "termsAgreed",
		},
		{
			name: "invalid email format",
			doc: `{"blogTitle": "t", "authorName": "a", "email": "not-an-email",
				"blogContent": "c", "category": "x", "termsAgreed": true}`,
			wantField: "email",
		},
		{
			name: "empty title",
			doc: `{"blogTitle": "", "authorName": "a", "email": "a@b.co",
				"blogContent": "c", "category": "x", "termsAgreed": true}`,
			wantField: "blogTitle",
		},
		{
			name: "unknown extra field",
			doc: `{"blogTitle": "t", "authorName": "a", "email": "a@b.co",
				"blogContent": "c", "category": "x", "termsAgreed": true, "extra": 1}`,
			wantField: "",
		},
		{
			name:      "not JSON at all",
			doc:       `blogTitle=t`,
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParsePayload() = nil error, want failure")
			}
			var intakeErr *Error
			if !errors.As(err, &intakeErr) {
				t.Fatalf("error %v is not an *intake.Error", err)
			}
			if tt.wantField == "" {
				return
			}
			if _, ok := intakeErr.Fields[tt.wantField]; !ok {
				t.Errorf("error fields %v missing %q", intakeErr.Fields, tt.wantField)
			}
		})
	}
}

func TestErrorStringIsStable(t *testing.T) {
	err := &Error{Fields: map[string]string{
		"email":     "bad email",
		"blogTitle": "empty",
	}}
	// Fields are sorted, so the rendering is deterministic.
	want := "blogTitle: empty; email: bad email"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFormLifecycle(t *testing.T) {
	form := NewForm()

	wantFields := []string{"blogTitle", "authorName", "email", "blogContent", "category", "termsAgreed"}
	if diff := cmp.Diff(wantFields, form.Fields()); diff != "" {
		t.Fatalf("Fields() mismatch (-want +got):\n%s", diff)
	}

	set := map[string]string{
		"blogTitle":   "Form Draft",
		"authorName":  "Avery",
		"email":       "avery@example.com",
		"blogContent": strings.Repeat("w", 30),
		"category":    "drafts",
		"termsAgreed": "true",
	}
	for field, value := range set {
		if err := form.Set(field, value); err != nil {
			t.Fatalf("Set(%s) error = %v", field, err)
		}
	}

	payload, err := form.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if payload.BlogTitle != "Form Draft" || !payload.TermsAgreed {
		t.Errorf("payload = %+v, fields not carried over", payload)
	}

	form.Reset()
	if _, err := form.Payload(); err == nil {
		t.Error("Payload() after Reset() succeeded, want schema failure")
	}
}

func TestFormSetErrors(t *testing.T) {
	form := NewForm()
	if err := form.Set("nonexistent", "v"); err == nil {
		t.Error("Set(unknown field) = nil error, want failure")
	}
	if err := form.Set("termsAgreed", "maybe"); err == nil {
		t.Error(`Set("termsAgreed", "maybe") = nil error, want failure`)
	}
	if err := form.Set("termsAgreed", "1"); err != nil {
		t.Errorf(`Set("termsAgreed", "1") error = %v`, err)
	}
}
