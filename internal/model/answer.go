package model

import "strings"

// LinkKind classifies the answer to the project-link step
type LinkKind string

const (
	LinkURL      LinkKind = "url"
	LinkDeclined LinkKind = "declined"
	LinkNDA      LinkKind = "nda"
)

// ProjectLink is the classified answer to the project-link step
type ProjectLink struct {
	Kind LinkKind `json:"kind"`
	URL  string   `json:"url,omitempty"`  // LinkURL only
	Note string   `json:"note,omitempty"` // LinkNDA with a written justification
}

// Value is the persisted project_link column: the literal URL, "declined" or "nda"
func (l ProjectLink) Value() string {
	switch l.Kind {
	case LinkURL:
		return l.URL
	case LinkDeclined:
		return string(LinkDeclined)
	default:
		return string(LinkNDA)
	}
}

// ScreeningPayload is the immutable record of one candidate's answers sent for scoring
type ScreeningPayload struct {
	Candidate   Candidate              `json:"candidate"`
	Answers     map[QuestionKey]string `json:"answers"`
	ProjectLink ProjectLink            `json:"-"`
}

// NewScreeningPayload copies the answers so later session mutation cannot leak in
func NewScreeningPayload(candidate Candidate, answers map[QuestionKey]string, link ProjectLink) ScreeningPayload {
	copied := make(map[QuestionKey]string, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	return ScreeningPayload{
		Candidate:   candidate,
		Answers:     copied,
		ProjectLink: link,
	}
}

// AnswersText joins all answers in question order
func (p ScreeningPayload) AnswersText() string {
	parts := make([]string, 0, len(p.Answers))
	for _, key := range QuestionKeys {
		if v, ok := p.Answers[key]; ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Document is the JSON document handed to the scoring oracle
func (p ScreeningPayload) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"tg_user_id":   p.Candidate.UserID,
		"username":     nullable(p.Candidate.Username),
		"full_name":    nullable(p.Candidate.FullName),
		"answers":      p.Answers,
		"project_link": p.ProjectLink.Value(),
	}
	if p.ProjectLink.Note != "" {
		doc["project_note"] = p.ProjectLink.Note
	}
	return doc
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
