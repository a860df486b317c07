package wellness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-ai-agent/internal/agent"
	"wellness-ai-agent/internal/errx"
)

type scriptedGenerator struct {
	responses []string
	errs      []error
	requests  []agent.Request
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, req agent.Request) (string, error) {
	i := g.calls
	g.calls++
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", assert.AnError
}

const foodJSON = `{
	"food_name": "Banana",
	"calories": 105,
	"protein": "1.3g",
	"carbs": 27,
	"fats": 0.4,
	"fiber": "3g",
	"pregnancy_safe": true,
	"period_friendly": true,
	"recommendations": "Good source of potassium.",
	"suggested_foods": ["Apple", "Oats"],
	"contains_allergens": false,
	"allergy_warning": "None known."
}`

func TestAnalyzeFoodHappyPath(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n" + foodJSON + "\n```"}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Banana"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Gemini", res.Source)
	assert.Empty(t, res.Note)
	require.NotNil(t, res.Report)
	assert.Equal(t, "Banana", res.Report.FoodName)
	assert.Equal(t, Amount(105), res.Report.Calories)
	assert.Equal(t, Amount(1.3), res.Report.Protein)
	assert.True(t, res.Report.PregnancySafe)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, agent.SafetyNone, gen.requests[0].Opts.Safety)
	assert.Contains(t, gen.requests[0].Prompt, "Banana")
}

func TestAnalyzeFoodWithImage(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{foodJSON}}
	svc := NewService(gen)

	img := []byte{0xFF, 0xD8, 0xFF}
	_, err := svc.AnalyzeFood(context.Background(), FoodInput{
		Name:      "Lunch",
		ImageData: img,
		ImageMIME: "image/jpeg",
	})
	require.NoError(t, err)
	require.NotNil(t, gen.requests[0].Image)
	assert.Equal(t, img, gen.requests[0].Image.Data)
	assert.Equal(t, "image/jpeg", gen.requests[0].Image.MIMEType)
}

func TestAnalyzeFoodBlockedRetriesSimplified(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{"", foodJSON},
		errs:      []error{agent.ErrBlocked, nil},
	}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Sushi platter"})
	require.NoError(t, err)
	assert.Equal(t, "Gemini", res.Source)
	require.Len(t, gen.requests, 2)
	assert.NotEqual(t, gen.requests[0].Prompt, gen.requests[1].Prompt)
	assert.Contains(t, gen.requests[1].Prompt, "Sushi platter")
}

func TestAnalyzeFoodBlockedTwiceFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{agent.ErrBlocked, agent.ErrBlocked}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Apple"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Fallback", res.Source)
	assert.NotEmpty(t, res.Note)
	assert.Equal(t, "Apple", res.Report.FoodName)
	assert.True(t, res.Report.PregnancySafe)
	assert.Equal(t, Amount(150), res.Report.Calories)
}

func TestAnalyzeFoodTransportErrorFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{assert.AnError}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Oatmeal"})
	require.NoError(t, err, "transport failures must degrade, not fail")
	assert.Equal(t, "Fallback", res.Source)
	assert.Equal(t, "Using safety-focused guidance due to temporary service issue", res.Note)
	require.Len(t, gen.requests, 1, "non-safety errors must not trigger the retry")
}

func TestAnalyzeFoodUnparseableOutputFallsBack(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"I'm sorry, I cannot help with that."}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Toast"})
	require.NoError(t, err)
	assert.Equal(t, "Fallback", res.Source)
	assert.NotEmpty(t, res.Note)
}

func TestAnalyzeFoodUnsafeKeywordFallback(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{assert.AnError}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Instant Noodles Cup"})
	require.NoError(t, err)
	assert.Equal(t, "Fallback", res.Source)
	assert.False(t, res.Report.PregnancySafe)
	assert.False(t, res.Report.PeriodFriendly)
	assert.Equal(t, Amount(0), res.Report.Calories)
	assert.Contains(t, res.Report.Recommendations, "NOT RECOMMENDED")
}

func TestAnalyzeFoodUnknownNameFallback(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{assert.AnError}}
	svc := NewService(gen)

	res, err := svc.AnalyzeFood(context.Background(), FoodInput{})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Food", res.Report.FoodName)
}

func TestAnalyzeFoodNotConfigured(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.AnalyzeFood(context.Background(), FoodInput{Name: "Apple"})
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
}

func TestAmountUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{`42`, 42},
		{`3.5`, 3.5},
		{`"15g"`, 15},
		{`"250 kcal"`, 250},
		{`"80cal"`, 80},
		{`" 12.5 "`, 12.5},
		{`"approximately ten"`, 0},
		{`null`, 0},
		{`true`, 0},
	}
	for _, tc := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tc.in), &a), "input %s", tc.in)
		assert.Equal(t, tc.want, a, "input %s", tc.in)
	}
}

func TestFoodReportApplyDefaults(t *testing.T) {
	r := &FoodReport{}
	r.applyDefaults()
	assert.Equal(t, "Unknown", r.FoodName)
	assert.NotNil(t, r.SuggestedFoods)
	assert.NotEmpty(t, r.AllergyWarning)

	r = &FoodReport{FoodName: "Rice", AllergyWarning: "contains nothing", SuggestedFoods: []string{"Beans"}}
	r.applyDefaults()
	assert.Equal(t, "Rice", r.FoodName)
	assert.Equal(t, "contains nothing", r.AllergyWarning)
	assert.Equal(t, []string{"Beans"}, r.SuggestedFoods)
}

func TestPregnancyChat(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Stay hydrated and rest well."}}
	svc := NewService(gen)

	reply, err := svc.PregnancyChat(context.Background(), "Is it normal to feel tired?")
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated and rest well.", reply)
	assert.Equal(t, agent.SafetyRelaxed, gen.requests[0].Opts.Safety)
	assert.Contains(t, gen.requests[0].Prompt, "Is it normal to feel tired?")
}

func TestPregnancyChatBlockedRetriesThenFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{agent.ErrBlocked, assert.AnError}}
	svc := NewService(gen)

	reply, err := svc.PregnancyChat(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, fallbackChatReply, reply)
	assert.Len(t, gen.requests, 2)
}

func TestPregnancyTipsFallbacks(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{assert.AnError, assert.AnError}}
	svc := NewService(gen)

	tips, err := svc.PregnancyTips(context.Background(), "nutrition")
	require.NoError(t, err)
	assert.Equal(t, fallbackTips["nutrition"], tips)

	tips, err = svc.PregnancyTips(context.Background(), "no-such-topic")
	require.NoError(t, err)
	assert.Equal(t, fallbackTips["general"], tips)
}

func TestAffirmationTrimsAndFallsBack(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"\n  You are strong.  \n"}}
	svc := NewService(gen)

	text, err := svc.Affirmation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "You are strong.", text)

	gen = &scriptedGenerator{errs: []error{assert.AnError}}
	svc = NewService(gen)
	text, err = svc.Affirmation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackAffirmation, text)
}

func TestDiseaseChatResponseType(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Can you predict what I have?", "ml_structured"},
		{"Please analyze my symptoms", "ml_structured"},
		{"what disease causes this?", "ml_structured"},
		{"I feel a bit off today", "conversational"},
		{"Thanks for the help!", "conversational"},
	}
	for _, tc := range cases {
		gen := &scriptedGenerator{responses: []string{"reply"}}
		svc := NewService(gen)
		_, responseType, err := svc.DiseaseChat(context.Background(), tc.message, "")
		require.NoError(t, err, tc.message)
		assert.Equal(t, tc.want, responseType, tc.message)
	}
}

func TestDiseaseChatCarriesPreviousContext(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"reply"}}
	svc := NewService(gen)

	_, _, err := svc.DiseaseChat(context.Background(), "any updates?", "User reported headaches yesterday")
	require.NoError(t, err)
	assert.Contains(t, gen.requests[0].Prompt, "User reported headaches yesterday")
}

func TestDiseaseChatFallback(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{assert.AnError}}
	svc := NewService(gen)

	reply, responseType, err := svc.DiseaseChat(context.Background(), "predict this", "")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	assert.Equal(t, "ml_structured", responseType)
}

func TestNotConfiguredAcrossOperations(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.Configured())

	_, err := svc.PregnancyChat(ctx, "hi")
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
	_, err = svc.PregnancyTips(ctx, "general")
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
	_, err = svc.Affirmation(ctx)
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
	_, err = svc.MentalChat(ctx, "hi")
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
	_, _, err = svc.DiseaseChat(ctx, "hi", "")
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
	_, err = svc.Probe(ctx)
	assert.ErrorIs(t, err, errx.ErrNotConfigured)
}
