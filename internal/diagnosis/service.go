package diagnosis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wellness-ai-agent/internal/agent"
	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/internal/extract"
	"wellness-ai-agent/pkg/logx"
)

const (
	// questionTarget is the fixed questionnaire length requested from the
	// model. Fewer parsed questions are accepted; more are truncated.
	questionTarget = 10
	// quickConditionLimit caps the triage list returned at intake.
	quickConditionLimit = 3
)

// Generator is the capability this service needs from the Model Gateway.
// We define it here to decouple from the concrete Gemini client and to
// allow scripted test doubles.
type Generator interface {
	Generate(ctx context.Context, req agent.Request) (string, error)
}

// Service drives the diagnostic questionnaire: intake, answer
// accumulation, and terminal report generation.
type Service interface {
	Start(ctx context.Context, symptoms string) (*StartResult, error)
	Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error)
	Report(ctx context.Context, sessionID string) (*ReportResult, error)
}

type service struct {
	store Store
	ai    Generator
}

func NewService(store Store, ai Generator) Service {
	return &service{store: store, ai: ai}
}

// Start generates the quick triage list and the question battery from the
// same symptom text, then creates the session. A Model Gateway failure at
// this stage fails the operation; there is no meaningful fallback before
// a session exists.
func (s *service) Start(ctx context.Context, symptoms string) (*StartResult, error) {
	if s.ai == nil {
		return nil, errx.ErrNotConfigured
	}

	quickText, err := s.ai.Generate(ctx, agent.Request{
		Prompt: quickPredictionPrompt(symptoms),
	})
	if err != nil {
		return nil, errx.Gateway(fmt.Errorf("quick predictions: %w", err))
	}
	quick := extract.PipeConditions(quickText, quickConditionLimit)

	questionsText, err := s.ai.Generate(ctx, agent.Request{
		Prompt: questionsPrompt(symptoms),
	})
	if err != nil {
		return nil, errx.Gateway(fmt.Errorf("diagnostic questions: %w", err))
	}
	questions := extract.PrefixedLines(questionsText, questionMarker, questionTarget)
	if len(questions) == 0 {
		logx.Warn().Msg("model produced no parseable questions, using fallback")
		questions = []string{fallbackQuestion}
	}

	sess := &Session{
		ID:              uuid.NewString(),
		InitialSymptoms: symptoms,
		Questions:       questions,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	logx.Info().
		Str("session_id", sess.ID).
		Int("questions", len(questions)).
		Int("quick_conditions", len(quick)).
		Msg("diagnosis session started")

	return &StartResult{
		SessionID:       sess.ID,
		InitialSymptoms: symptoms,
		QuickConditions: quick,
		TotalQuestions:  len(questions),
		CurrentQuestion: 1,
		Question:        questions[0],
		Status:          StatusInProgress,
	}, nil
}

// Answer records one answer against the current question and advances the
// index. Submitting past the end of the questionnaire is rejected rather
// than indexing out of range.
func (s *service) Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	sess, err := s.store.Update(ctx, sessionID, func(cur *Session) error {
		if cur.Complete() {
			return errx.ErrSessionComplete
		}
		cur.Answers = append(cur.Answers, Answer{
			Question: cur.Questions[cur.CurrentQuestion],
			Answer:   answer,
		})
		cur.CurrentQuestion++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sess.Complete() {
		return &AnswerResult{
			SessionID: sessionID,
			Status:    StatusCompleted,
			Message:   "All questions answered. Generating diagnosis...",
		}, nil
	}
	return &AnswerResult{
		SessionID:       sessionID,
		CurrentQuestion: sess.CurrentQuestion + 1,
		TotalQuestions:  len(sess.Questions),
		Question:        sess.Questions[sess.CurrentQuestion],
		Status:          StatusInProgress,
	}, nil
}

// Report issues the ranked-report generation call from the transcript
// accumulated so far, and deletes the session only on success so the
// caller can retry after a gateway failure.
func (s *service) Report(ctx context.Context, sessionID string) (*ReportResult, error) {
	if s.ai == nil {
		return nil, errx.ErrNotConfigured
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.ai.Generate(ctx, agent.Request{
		Prompt: reportPrompt(sess),
	})
	if err != nil {
		return nil, errx.Gateway(fmt.Errorf("detailed analysis: %w", err))
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		// The report exists; a concurrent delete only means the terminal
		// state was reached twice.
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("session already removed")
	}

	logx.Info().
		Str("session_id", sessionID).
		Int("questions_answered", len(sess.Answers)).
		Msg("diagnosis report generated, session terminated")

	return &ReportResult{
		DetailedAnalysis:  analysis,
		SymptomsAnalyzed:  sess.InitialSymptoms,
		QuestionsAnswered: len(sess.Answers),
		ModelType:         ModelType,
	}, nil
}
