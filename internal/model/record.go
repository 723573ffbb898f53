package model

import (
	"strconv"
	"strings"
	"time"
)

// Row store column names, in sheet order
const (
	ColTimestamp     = "timestamp_utc_iso"
	ColUserID        = "tg_user_id"
	ColUsername      = "username"
	ColFullName      = "full_name"
	ColAnswersJSON   = "answers_json"
	ColProjectLink   = "project_link"
	ColProjectNote   = "project_note"
	ColScoresJSON    = "scores_json"
	ColOverallScore  = "overall_score"
	ColTopCandidate  = "top_candidate"
	ColLLMModel      = "llm_model"
	ColLatencyMS     = "latency_ms"
	ColScoringFailed = "scoring_failed"
	ColError         = "error"
)

// RecordHeader is the ordered header row of the row store
var RecordHeader = []string{
	ColTimestamp, ColUserID, ColUsername, ColFullName, ColAnswersJSON, ColProjectLink,
	ColProjectNote, ColScoresJSON, ColOverallScore, ColTopCandidate, ColLLMModel,
	ColLatencyMS, ColScoringFailed, ColError,
}

// TimestampLayout is ISO-8601 UTC at second precision with a Z suffix
const TimestampLayout = "2006-01-02T15:04:05Z"

// MaxRecordErrorLen bounds the error column
const MaxRecordErrorLen = 500

// SessionRecord is the persisted outcome of one completed session. Created once, never mutated.
type SessionRecord struct {
	Timestamp     string `json:"timestamp_utc_iso" bson:"timestamp_utc_iso"`
	UserID        int64  `json:"tg_user_id" bson:"tg_user_id"`
	Username      string `json:"username" bson:"username"`
	FullName      string `json:"full_name" bson:"full_name"`
	AnswersJSON   string `json:"answers_json" bson:"answers_json"`
	ProjectLink   string `json:"project_link" bson:"project_link"`
	ProjectNote   string `json:"project_note" bson:"project_note"`
	ScoresJSON    string `json:"scores_json" bson:"scores_json"` // "{}" when scoring failed
	OverallScore  int    `json:"overall_score" bson:"overall_score"`
	TopCandidate  bool   `json:"top_candidate" bson:"top_candidate"`
	LLMModel      string `json:"llm_model" bson:"llm_model"`
	LatencyMS     int64  `json:"latency_ms" bson:"latency_ms"`
	ScoringFailed bool   `json:"scoring_failed" bson:"scoring_failed"`
	Error         string `json:"error" bson:"error"`
}

// FormatTimestamp renders t as the record timestamp
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// Values returns the record as flat string cells in RecordHeader order
func (r *SessionRecord) Values() []string {
	return []string{
		r.Timestamp,
		strconv.FormatInt(r.UserID, 10),
		r.Username,
		r.FullName,
		r.AnswersJSON,
		r.ProjectLink,
		r.ProjectNote,
		r.ScoresJSON,
		strconv.Itoa(r.OverallScore),
		formatBool(r.TopCandidate),
		r.LLMModel,
		strconv.FormatInt(r.LatencyMS, 10),
		formatBool(r.ScoringFailed),
		r.Error,
	}
}

// Row returns the record as a header-keyed row
func (r *SessionRecord) Row() RecordRow {
	values := r.Values()
	row := make(RecordRow, len(RecordHeader))
	for i, col := range RecordHeader {
		row[col] = values[i]
	}
	return row
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// RecordRow is one row read back from the row store, loosely typed
type RecordRow map[string]string

// Bool parses a truthy token: true, 1, yes, y, да (case-insensitive)
func (r RecordRow) Bool(col string) bool {
	switch strings.ToLower(strings.TrimSpace(r[col])) {
	case "true", "1", "yes", "y", "да":
		return true
	}
	return false
}

// Int parses an integer column, 0 on failure
func (r RecordRow) Int(col string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r[col]))
	if err != nil {
		return 0
	}
	return n
}

// Str returns the trimmed column value
func (r RecordRow) Str(col string) string {
	return strings.TrimSpace(r[col])
}

// RowFromValues zips values with the header, padding or trimming to header length
func RowFromValues(header, values []string) RecordRow {
	row := make(RecordRow, len(header))
	for i, col := range header {
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
