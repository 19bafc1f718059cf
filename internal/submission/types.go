// Package submission implements the blog form-submission pipeline: gate
// validation, JSON serialization with a round-trip equivalence check, payload
// enrichment, and an encapsulated submission counter.
package submission

// MinContentLength is the exclusive lower bound on blog content length,
// counted in Unicode code points.
const MinContentLength = 25

// SubmissionDateLayout formats the enrichment timestamp as a long-form
// human-readable string.
const SubmissionDateLayout = "January 2, 2006 at 3:04 PM"

// FormPayload is the structured data extracted from a single form submission.
// JSON keys match the originating form's field names, in declared order.
type FormPayload struct {
	BlogTitle   string `json:"blogTitle"`
	AuthorName  string `json:"authorName"`
	Email       string `json:"email"`
	BlogContent string `json:"blogContent"`
	Category    string `json:"category"`
	TermsAgreed bool   `json:"termsAgreed"`
}

// EnrichedPayload is a validated FormPayload plus the submission timestamp.
// SubmissionDate is captured once at enrichment time and never mutated.
type EnrichedPayload struct {
	FormPayload
	SubmissionDate string `json:"submissionDate"`
}

// Result is returned by HandleSubmit on success.
type Result struct {
	SubmissionID string
	Payload      EnrichedPayload
	Count        int64
	Digest       string
}
