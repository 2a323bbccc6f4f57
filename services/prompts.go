package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"gbp-auditor/models"
)

// AuditDimensions are the seven areas every audit prompt enumerates, in order.
var AuditDimensions = []struct {
	Name   string
	Detail string
}{
	{"Profile Completeness & Accuracy", "Check for consistent NAP (Name, Address, Phone), filled-out service areas, attributes, and a compelling business description."},
	{"Review Strategy & Responsiveness", "Evaluate the quantity and quality of reviews. Analyze the hypothetical responsiveness to both positive and negative reviews. A good response is timely, professional, and personalized. A bad response is generic, slow, or non-existent."},
	{"Photo & Video Strategy", "Assess the quality (high-resolution, well-lit, professional) and quantity of photos and videos. For a restaurant, this would mean appetizing food photos; for a law firm, professional headshots and office photos."},
	{"Post Frequency & Engagement", "Analyze the consistency and relevance of GBP posts (updates, offers, events). Are they engaging? Do they have clear calls-to-action?"},
	{"Q&A Engagement", "Evaluate how well the business manages its Q&A section. Does it proactively add common questions and provide authoritative answers? Does it answer user questions promptly?"},
	{"Local SEO Signals", "Evaluate hypothetical local citations, backlink profile from relevant local sites, and keyword optimization in the business description and posts."},
	{"Service/Product Listing Optimization", "Assess how well services and products are listed, described, and priced. Are they using high-quality images for each?"},
}

var auditPromptTmpl = template.Must(template.New("audit").Funcs(promptFuncs).Parse(`Act as a world-class Google Business Profile (GBP) optimization expert.

You cannot access the live internet. Generate a plausible, highly detailed, and hypothetical audit for a business with the following details:
- Business Name: "{{.BusinessName}}"
- Location: "{{.Location}}"
- Phone Number: "{{.PhoneNumber}}"

Infer the business's industry from its name (e.g., restaurant, law firm, retail shop). Your audit MUST reflect the nuances of that specific industry.

Perform a detailed audit covering these key areas:
{{range $i, $d := .Dimensions}}{{inc $i}}. **{{$d.Name}}:** {{$d.Detail}}
{{end}}
Your response MUST be a valid JSON object that adheres to the provided schema. Do not include any text outside of the JSON object.

The analysis must include:
1. An overall score from 0 to 100.
2. A breakdown of scores (0 to 100) for at least {{.MinBreakdown}} of the categories listed above.
3. At least {{.MinRecommendations}} specific, actionable recommendations for improvement. These should be insightful and tailored to the hypothetical findings.
`))

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize the following Google Business Profile audit for "{{.BusinessName}}" into a concise and professional email body suitable for sharing with a team or stakeholder.
The tone should be informative and encouraging.
Format it with clear headings using block capitals (e.g., "OVERALL SCORE") and use bullet points for lists. Do not use markdown. Use plain text with line breaks for maximum compatibility.

Audit Data:
- Overall Score: {{.OverallScore}}/100
- Breakdown: {{.Breakdown}}
- Recommendations: {{.Recommendations}}

Start the email body directly with "{{.Opening}}".
Follow this structure:
1. A brief introduction.
2. A section titled "OVERALL SCORE".
3. A section titled "KEY FINDINGS" that lists each audit category and its score as a bullet point (e.g., "- Profile Completeness: 85/100").
4. A section titled "TOP RECOMMENDATIONS" that lists the title of each recommendation as a bullet point.
5. A concluding sentence.
`))

// Section headings the email summary is asked to use.
const (
	HeadingOverallScore       = "OVERALL SCORE"
	HeadingKeyFindings        = "KEY FINDINGS"
	HeadingTopRecommendations = "TOP RECOMMENDATIONS"
)

// SummaryOpening is the fixed first sentence of every email summary.
func SummaryOpening(businessName string) string {
	return fmt.Sprintf("Here is the summary of your Google Business Profile audit for %s:", businessName)
}

// EmailSubject is the subject line paired with a generated summary.
func EmailSubject(businessName string) string {
	return fmt.Sprintf("Your Google Business Profile Audit for %s", businessName)
}

// BuildAuditPrompt renders the audit instruction. Output is deterministic for
// identical input.
func BuildAuditPrompt(form models.DraftForm, want models.Minimums) (string, error) {
	data := struct {
		BusinessName       string
		Location           string
		PhoneNumber        string
		Dimensions         any
		MinBreakdown       int
		MinRecommendations int
	}{
		BusinessName:       form.BusinessName,
		Location:           form.Location,
		PhoneNumber:        form.PhoneNumber,
		Dimensions:         AuditDimensions,
		MinBreakdown:       atLeastOne(want.Breakdown),
		MinRecommendations: atLeastOne(want.Recommendations),
	}

	var b strings.Builder
	if err := auditPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("prompt: render audit: %w", err)
	}
	return b.String(), nil
}

// BuildSummaryPrompt renders the email summary instruction, embedding the
// full result as JSON.
func BuildSummaryPrompt(result *models.AuditResult, businessName string) (string, error) {
	breakdown, err := marshalPlain(result.AuditBreakdown)
	if err != nil {
		return "", fmt.Errorf("prompt: encode breakdown: %w", err)
	}
	recs, err := marshalPlain(result.Recommendations)
	if err != nil {
		return "", fmt.Errorf("prompt: encode recommendations: %w", err)
	}

	data := struct {
		BusinessName    string
		OverallScore    int
		Breakdown       string
		Recommendations string
		Opening         string
	}{
		BusinessName:    businessName,
		OverallScore:    result.OverallScore,
		Breakdown:       breakdown,
		Recommendations: recs,
		Opening:         SummaryOpening(businessName),
	}

	var b strings.Builder
	if err := summaryPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("prompt: render summary: %w", err)
	}
	return b.String(), nil
}

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// marshalPlain encodes v as compact JSON without HTML escaping, so "Q&A" stays readable.
func marshalPlain(v any) (string, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
