package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wellness-ai-agent/internal/agent"
	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/internal/extract"
	"wellness-ai-agent/pkg/logx"
)

// Generator is the Model Gateway capability consumed by the single-shot
// endpoints; defined here to decouple from the Gemini client.
type Generator interface {
	Generate(ctx context.Context, req agent.Request) (string, error)
}

// Service backs the stateless endpoints: each operation is one model call
// with defensive parsing and a graceful degraded path. Only a missing
// credential is a hard failure here.
type Service interface {
	AnalyzeFood(ctx context.Context, in FoodInput) (*FoodResult, error)
	PregnancyChat(ctx context.Context, message string) (string, error)
	PregnancyTips(ctx context.Context, topic string) (string, error)
	Affirmation(ctx context.Context) (string, error)
	MentalChat(ctx context.Context, message string) (string, error)
	DiseaseChat(ctx context.Context, message, previous string) (string, string, error)
	Probe(ctx context.Context) (string, error)
	Configured() bool
}

type service struct {
	ai Generator
}

func NewService(ai Generator) Service {
	return &service{ai: ai}
}

func (s *service) Configured() bool {
	return s.ai != nil
}

func (s *service) configured() error {
	if s.ai == nil {
		return errx.ErrNotConfigured
	}
	return nil
}

// unsafeKeywords marks foods the fallback must never describe as safe.
var unsafeKeywords = []string{
	"ajinomoto", "msg", "monosodium glutamate", "instant noodles",
	"energy drink", "alcohol", "raw meat", "raw fish", "sushi",
}

func isKnownUnsafe(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range unsafeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// AnalyzeFood runs the nutrition/safety analysis. The happy path is one
// model call; a safety refusal gets one retry with a simplified prompt;
// parse failures and transport errors degrade to a keyword-aware canned
// report labeled as fallback. The error return is non-nil only for a
// missing credential.
func (s *service) AnalyzeFood(ctx context.Context, in FoodInput) (*FoodResult, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	req := agent.Request{
		Prompt: foodAnalysisPrompt + "\n\n" + foodTextInput(in.Name, in.Description, in.Allergies),
		Opts: agent.Options{
			Temperature:     0.2,
			TopP:            0.8,
			MaxOutputTokens: 1024,
			Safety:          agent.SafetyNone,
		},
	}
	if in.ImageData != nil {
		req.Image = &agent.Image{Data: in.ImageData, MIMEType: in.ImageMIME}
	}

	text, err := s.ai.Generate(ctx, req)
	if errors.Is(err, agent.ErrBlocked) {
		logx.Info().Msg("food analysis blocked by safety, retrying with simpler prompt")
		text, err = s.ai.Generate(ctx, agent.Request{
			Prompt: simpleFoodPrompt(in.Name),
			Opts: agent.Options{
				Temperature:     0.2,
				MaxOutputTokens: 800,
				Safety:          agent.SafetyNone,
			},
		})
	}
	if err != nil {
		logx.Warn().Err(err).Str("food", in.Name).Msg("food analysis degraded to fallback")
		return &FoodResult{
			Success: true,
			Source:  sourceFallback,
			Report:  fallbackFoodReport(in.Name),
			Note:    "Using safety-focused guidance due to temporary service issue",
		}, nil
	}

	var report FoodReport
	if err := extract.JSONInto(text, &report); err != nil {
		logx.Warn().Str("food", in.Name).Msg("could not parse model output, using fallback data")
		return &FoodResult{
			Success: true,
			Source:  sourceFallback,
			Report:  fallbackFoodReport(in.Name),
			Note:    "Using safety-focused guidance due to temporary service issue",
		}, nil
	}
	report.applyDefaults()

	logx.Info().Str("food", report.FoodName).Msg("food analyzed")
	return &FoodResult{Success: true, Source: sourceGemini, Report: &report}, nil
}

func fallbackFoodReport(name string) *FoodReport {
	display := name
	if display == "" {
		display = "Unknown Food"
	}
	if isKnownUnsafe(display) {
		return &FoodReport{
			FoodName:       display,
			PregnancySafe:  false,
			PeriodFriendly: false,
			Recommendations: fmt.Sprintf("⚠️ %s is NOT RECOMMENDED during pregnancy or menstruation due to potential health risks. "+
				"This food may contain harmful additives, high sodium, or other substances that could affect your health. "+
				"Please consult your healthcare provider and choose healthier alternatives.", display),
			SuggestedFoods: []string{"Fresh fruits", "Vegetables", "Whole grains", "Lean proteins", "Nuts"},
			AllergyWarning: "ℹ️ No allergy information provided. Consult your healthcare provider if you have food allergies.",
		}
	}
	return &FoodReport{
		FoodName:       display,
		Calories:       150,
		Protein:        10,
		Carbs:          20,
		Fats:           5,
		Fiber:          3,
		PregnancySafe:  true,
		PeriodFriendly: true,
		Recommendations: fmt.Sprintf("General wellness tip: %s can be part of a balanced diet when consumed in moderation. "+
			"Focus on variety, whole foods, and listening to your body's needs. "+
			"Consult your healthcare provider for personalized nutrition advice.", display),
		SuggestedFoods: []string{"Fresh fruits", "Vegetables", "Whole grains", "Lean proteins", "Legumes"},
		AllergyWarning: "ℹ️ No allergy information provided. Consult your healthcare provider if you have food allergies.",
	}
}

func (s *service) PregnancyChat(ctx context.Context, message string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}

	reply, err := s.ai.Generate(ctx, agent.Request{
		Prompt: pregnancyChatPrompt(message),
		Opts: agent.Options{
			Temperature:     0.7,
			TopP:            0.9,
			MaxOutputTokens: 5000,
			Safety:          agent.SafetyRelaxed,
		},
	})
	if errors.Is(err, agent.ErrBlocked) {
		reply, err = s.ai.Generate(ctx, agent.Request{
			Prompt: simpleChatPrompt(message),
			Opts: agent.Options{
				Temperature:     0.5,
				MaxOutputTokens: 400,
				Safety:          agent.SafetyRelaxed,
			},
		})
	}
	if err != nil {
		logx.Warn().Err(err).Msg("pregnancy chat degraded to fallback reply")
		return fallbackChatReply, nil
	}
	return reply, nil
}

func (s *service) PregnancyTips(ctx context.Context, topic string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}

	tips, err := s.ai.Generate(ctx, agent.Request{
		Prompt: tipsPrompt(topic),
		Opts: agent.Options{
			Temperature:     0.6,
			TopP:            0.9,
			MaxOutputTokens: 600,
			Safety:          agent.SafetyRelaxed,
		},
	})
	if err != nil {
		logx.Warn().Err(err).Str("topic", topic).Msg("tips degraded to fallback")
		if canned, ok := fallbackTips[topic]; ok {
			return canned, nil
		}
		return fallbackTips["general"], nil
	}
	return tips, nil
}

func (s *service) Affirmation(ctx context.Context) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}

	text, err := s.ai.Generate(ctx, agent.Request{
		Prompt: affirmationPrompt,
		Opts: agent.Options{
			Temperature:     0.9,
			TopP:            0.95,
			MaxOutputTokens: 150,
		},
	})
	if err != nil {
		logx.Warn().Err(err).Msg("affirmation degraded to fallback")
		return fallbackAffirmation, nil
	}
	return strings.TrimSpace(text), nil
}

func (s *service) MentalChat(ctx context.Context, message string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}

	reply, err := s.ai.Generate(ctx, agent.Request{
		Prompt: mentalChatPrompt(message),
	})
	if err != nil {
		logx.Warn().Err(err).Msg("mental chat degraded to fallback reply")
		return "Sorry, I couldn't process that right now.", nil
	}
	return reply, nil
}

// mlKeywords flags follow-up questions that expect a structured
// prediction-style answer rather than a conversational one.
var mlKeywords = []string{
	"predict", "prediction", "ml model", "machine learning",
	"analyze", "diagnosis", "what disease", "what condition",
}

func (s *service) DiseaseChat(ctx context.Context, message, previous string) (string, string, error) {
	if err := s.configured(); err != nil {
		return "", "", err
	}

	responseType := "conversational"
	prompt := diseaseChatConversationalPrompt(message, previous)
	lower := strings.ToLower(message)
	for _, kw := range mlKeywords {
		if strings.Contains(lower, kw) {
			responseType = "ml_structured"
			prompt = diseaseChatStructuredPrompt(message, previous)
			break
		}
	}

	reply, err := s.ai.Generate(ctx, agent.Request{Prompt: prompt})
	if err != nil {
		logx.Warn().Err(err).Msg("disease chat degraded to fallback reply")
		return "Sorry, I couldn't process that right now.", responseType, nil
	}
	return reply, responseType, nil
}

// Probe issues a minimal generation to verify connectivity.
func (s *service) Probe(ctx context.Context) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}
	return s.ai.Generate(ctx, agent.Request{
		Prompt: "Say 'Hello, I am working!' and nothing else.",
		Opts: agent.Options{
			Temperature:     0.1,
			MaxOutputTokens: 50,
		},
	})
}
