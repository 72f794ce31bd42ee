// Package model defines the data types shared across the verification pipeline.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a pre-screened instrument awaiting AI verification.
// It is owned by the caller and read-only to the pipeline.
type Candidate struct {
	Code           string          `json:"code" yaml:"code"`
	Name           string          `json:"name" yaml:"name"`
	Price          float64         `json:"price" yaml:"price"`
	Theme          string          `json:"theme" yaml:"theme"`
	ForeignNet     decimal.Decimal `json:"foreign_net" yaml:"foreign_net"`
	InstitutionNet decimal.Decimal `json:"institution_net" yaml:"institution_net"`
	FinalScore     float64         `json:"final_score" yaml:"final_score"`
}

// NewsItem is one news article gathered for a candidate.
type NewsItem struct {
	Title   string    `json:"title"`
	Summary string    `json:"summary,omitempty"`
	Content string    `json:"content,omitempty"`
	Date    time.Time `json:"date"`
	Source  string    `json:"source,omitempty"`
	URL     string    `json:"url,omitempty"`
}

// Importance levels assigned to disclosures.
const (
	ImportanceNormal   = "normal"
	ImportanceHigh     = "high"
	ImportanceCritical = "critical"
)

// Disclosure is one regulatory filing gathered for a candidate.
type Disclosure struct {
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type,omitempty"`
	TypeName   string    `json:"type_name,omitempty"`
	URL        string    `json:"url,omitempty"`
	Importance string    `json:"importance,omitempty"`
	Sentiment  string    `json:"sentiment,omitempty"`
}

// EvidenceBundle aggregates the textual evidence collected for one
// candidate. It lives for a single verification run.
type EvidenceBundle struct {
	Code        string       `json:"code"`
	News        []NewsItem   `json:"news,omitempty"`
	Disclosures []Disclosure `json:"disclosures,omitempty"`
}

// Recommendation values the scoring service may return.
const (
	RecommendYes  = "Yes"
	RecommendNo   = "No"
	RecommendHold = "Hold"
)

// AnalysisRecord is the normalized output of one scoring-service call.
// After validation, Sentiment is always in [0,10] and Confidence in [0,1].
type AnalysisRecord struct {
	Code         string  `json:"code,omitempty"`
	Sentiment    float64 `json:"sentiment"`
	Recommend    string  `json:"recommend"`
	Reason       string  `json:"reason,omitempty"`
	Risk         string  `json:"risk,omitempty"`
	TargetReturn float64 `json:"target_return"`
	Confidence   float64 `json:"confidence"`
}

// Neutral reports whether the record is the deterministic fallback produced
// when no judgment was made. Confidence exactly 0.0 is the sentinel.
func (r AnalysisRecord) Neutral() bool {
	return r.Confidence == 0
}

// VerifiedCandidate is a Candidate extended with its analysis, the fused
// score, and the pass/fail gate. Immutable once built.
type VerifiedCandidate struct {
	Candidate  `yaml:",inline"`
	Analysis   AnalysisRecord `json:"analysis"`
	FusedScore float64        `json:"fused_score"`
	Passed     bool           `json:"passed"`
}

// RunStatus tracks the lifecycle of a stored verification run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// VerificationRun is the persisted record of one batch verification.
type VerificationRun struct {
	ID         string    `json:"id"`
	Status     RunStatus `json:"status"`
	Candidates int       `json:"candidates"`
	Passed     int       `json:"passed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
