package diagnosis

import (
	"time"

	"wellness-ai-agent/internal/extract"
)

// ModelType is the fixed label attached to every detailed report.
const ModelType = "ML_CLASSIFIER_V2_INTERACTIVE"

// Answer is one recorded (question, answer) pair. The answer vocabulary
// ("yes", "no", "dont_know", "probably_yes", "probably_no") is advisory;
// the value is stored verbatim.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is one in-progress diagnostic questionnaire. Questions are
// immutable once generated; answers are append-only and grow by exactly
// one per accepted answer, so len(Answers) == CurrentQuestion always
// holds. When CurrentQuestion equals len(Questions) the session is
// answer-complete and only report generation remains.
type Session struct {
	ID              string    `json:"session_id"`
	InitialSymptoms string    `json:"initial_symptoms"`
	Questions       []string  `json:"questions"`
	Answers         []Answer  `json:"answers"`
	CurrentQuestion int       `json:"current_question"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Complete reports whether every question has been answered.
func (s *Session) Complete() bool {
	return s.CurrentQuestion >= len(s.Questions)
}

// StartResult is the intake bundle: the session handle, the quick triage
// list produced alongside question generation, and the first question.
type StartResult struct {
	SessionID       string              `json:"session_id"`
	InitialSymptoms string              `json:"initial_symptoms"`
	QuickConditions []extract.Condition `json:"quick_conditions"`
	TotalQuestions  int                 `json:"total_questions"`
	CurrentQuestion int                 `json:"current_question"`
	Question        string              `json:"question"`
	Status          string              `json:"status"`
}

// AnswerResult is either the next-question bundle (status "in_progress")
// or the completion signal (status "completed").
type AnswerResult struct {
	SessionID       string `json:"session_id"`
	CurrentQuestion int    `json:"current_question,omitempty"`
	TotalQuestions  int    `json:"total_questions,omitempty"`
	Question        string `json:"question,omitempty"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
}

// ReportResult is the terminal report. After it is produced the session
// no longer exists.
type ReportResult struct {
	DetailedAnalysis  string `json:"detailed_analysis"`
	SymptomsAnalyzed  string `json:"symptoms_analyzed"`
	QuestionsAnswered int    `json:"questions_answered"`
	ModelType         string `json:"model_type"`
}

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)
