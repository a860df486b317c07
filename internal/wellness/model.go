package wellness

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a nutritional value that the model sometimes returns as a
// string with a unit suffix ("15g", "250 kcal") despite being asked for
// plain numbers. Unparseable values decode to zero instead of failing the
// whole report.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = 0
		return nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for _, unit := range []string{"kcal", "cal", "g"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(n)
	return nil
}

// FoodReport is the normalized food-analysis payload.
type FoodReport struct {
	FoodName          string   `json:"food_name"`
	Calories          Amount   `json:"calories"`
	Protein           Amount   `json:"protein"`
	Carbs             Amount   `json:"carbs"`
	Fats              Amount   `json:"fats"`
	Fiber             Amount   `json:"fiber"`
	PregnancySafe     bool     `json:"pregnancy_safe"`
	PeriodFriendly    bool     `json:"period_friendly"`
	Recommendations   string   `json:"recommendations"`
	SuggestedFoods    []string `json:"suggested_foods"`
	ContainsAllergens bool     `json:"contains_allergens"`
	AllergyWarning    string   `json:"allergy_warning"`
}

// applyDefaults fills the fields the model omitted so the response shape
// is always complete.
func (r *FoodReport) applyDefaults() {
	if r.FoodName == "" {
		r.FoodName = "Unknown"
	}
	if r.SuggestedFoods == nil {
		r.SuggestedFoods = []string{}
	}
	if r.AllergyWarning == "" {
		r.AllergyWarning = "ℹ️ No allergy information provided. If you have food allergies, please consult a healthcare professional for personalized advice."
	}
}

// FoodInput is the analyse request after handler validation.
type FoodInput struct {
	Name        string
	Description string
	Allergies   string
	ImageData   []byte
	ImageMIME   string
}

// FoodResult wraps the report with its provenance: "Gemini" for a real
// model answer, "Fallback" (plus Note) for the degraded path.
type FoodResult struct {
	Success bool        `json:"success"`
	Source  string      `json:"source"`
	Report  *FoodReport `json:"report"`
	Note    string      `json:"note,omitempty"`
}

const (
	sourceGemini   = "Gemini"
	sourceFallback = "Fallback"
)
