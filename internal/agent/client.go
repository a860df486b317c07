package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// ErrBlocked means the model declined to answer because of a content-safety
// block. Callers are expected to retry with a simplified prompt or fall
// back to a canned response; this must never surface as a hard error.
var ErrBlocked = errors.New("response blocked by safety filters")

// SafetyPreset selects the safety-threshold set sent with a request.
type SafetyPreset int

const (
	// SafetyDefault leaves the provider defaults in place.
	SafetyDefault SafetyPreset = iota
	// SafetyNone disables all blocking categories. Used for the food
	// analyzer, where allergen warnings trip the dangerous-content filter.
	SafetyNone
	// SafetyRelaxed disables all categories except dangerous content,
	// which blocks only high severity.
	SafetyRelaxed
)

// Image is an inline image attachment.
type Image struct {
	Data     []byte
	MIMEType string
}

// Options are the generation knobs exposed to callers. Zero values mean
// "leave unset".
type Options struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	Safety          SafetyPreset
}

// Request is a single prompt for the model, optionally with an image.
type Request struct {
	Prompt string
	Image  *Image
	Opts   Options
}

// Client is a thin wrapper around the official genai client. It only
// focuses on the API call itself plus the process-wide pacing every
// outbound call must respect.
type Client struct {
	cli   *genai.Client
	model string
	pacer *Pacer
}

// NewClient builds a Gemini client for the given model. The pacer is
// shared process-wide so the minimum inter-call spacing holds across all
// concurrent requests.
func NewClient(ctx context.Context, apiKey, model string, pacer *Pacer) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli, model: model, pacer: pacer}, nil
}

// Generate sends one prompt and returns the model's text. A content-safety
// refusal is reported as ErrBlocked; everything else is a transport error.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return "", err
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.Image.MIMEType,
				Data:     req.Image.Data,
			},
		})
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: parts}},
		generationConfig(req.Opts),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", ErrBlocked
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety || cand.FinishReason == genai.FinishReasonProhibitedContent {
		return "", ErrBlocked
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", ErrBlocked
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrBlocked
	}
	return text, nil
}

func generationConfig(opts Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(opts.TopP)
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	cfg.SafetySettings = safetySettings(opts.Safety)
	return cfg
}

func safetySettings(preset SafetyPreset) []*genai.SafetySetting {
	switch preset {
	case SafetyNone:
		return []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		}
	case SafetyRelaxed:
		return []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		}
	default:
		return nil
	}
}
