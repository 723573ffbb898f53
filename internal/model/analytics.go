package model

// SummaryStatus distinguishes "never ran" from "nothing matched the filter"
type SummaryStatus string

const (
	SummaryOK              SummaryStatus = "ok"
	SummaryNoData          SummaryStatus = "no_data"           // row store is empty
	SummaryNoTopCandidates SummaryStatus = "no_top_candidates" // rows exist, none flagged top
)

// LeaderboardEntry is one row of the top-N leaderboard
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Display      string `json:"display"`
	OverallScore int    `json:"overallScore"`
	TopCandidate bool   `json:"topCandidate"`
	Timestamp    string `json:"timestamp"`
}

// Summary aggregates stored session records
type Summary struct {
	Status             SummaryStatus      `json:"status"`
	TopOnly            bool               `json:"topOnly"`
	TotalCount         int                `json:"totalCount"`
	AverageScore       float64            `json:"averageScore"` // one decimal
	TopCandidateCount  int                `json:"topCandidateCount"`
	ScoringFailedCount int                `json:"scoringFailedCount"`
	Top3               []LeaderboardEntry `json:"top3"`
}
