package wellness

import (
	"fmt"
	"strings"
)

const foodAnalysisPrompt = `You are an expert nutritionist and food safety specialist providing accurate wellness information about food.

Analyze this food and return JSON ONLY (no markdown, no extra text):
{
  "food_name": "actual name of the food",
  "calories": 250,
  "protein": 15,
  "carbs": 30,
  "fats": 10,
  "fiber": 5,
  "pregnancy_safe": false,
  "period_friendly": true,
  "recommendations": "detailed safety and wellness advice about this specific food",
  "suggested_foods": ["healthier alternative 1", "healthier alternative 2", "healthier alternative 3"],
  "contains_allergens": false,
  "allergy_warning": "allergy safety information"
}

ALLERGY CHECKING:
- If user allergies ARE provided, carefully check whether the food contains ANY of the listed allergens (consider hidden sources: peanut oil, whey, casein, mayonnaise, soy sauce, tahini, and so on).
- If the food CONTAINS a listed allergen: set contains_allergens=true, pregnancy_safe=false, period_friendly=false, and start recommendations with a clear DO NOT CONSUME warning naming the allergen.
- If it does NOT: set contains_allergens=false and note in allergy_warning that labels should still be checked for cross-contamination.
- If NO allergies were provided: set contains_allergens=false and say so in allergy_warning.

CRITICAL SAFETY RULES - BE EXTREMELY ACCURATE:
1. pregnancy_safe must be FALSE for: MSG/ajinomoto, raw or undercooked meat/eggs/fish, unpasteurized dairy, high-mercury fish, alcohol, raw sprouts, heavily processed foods with artificial additives, very high sodium foods, artificial sweeteners, energy drinks, excessive caffeine, unpasteurized soft cheeses, unheated deli meats, raw dough.
2. period_friendly must be FALSE for: MSG, high-sodium foods, caffeine and energy drinks, processed or junk foods, very spicy foods, alcohol, high-sugar foods, fried or greasy foods.
3. period_friendly should be TRUE for iron-rich, magnesium-rich, omega-3-rich and vitamin-B6-rich whole foods, fresh fruit, herbal teas, whole grains.
4. Be honest about low nutritional value; never mark unsafe foods as safe.

ACCURACY REQUIREMENTS:
1. Return ONLY valid JSON, no markdown code blocks.
2. All nutritional values must be NUMBERS ONLY (not strings like "15g", just 15).
3. Use REALISTIC nutritional data based on actual food composition databases.
4. food_name must be the actual food name identified.
5. recommendations must be specific to the food being analyzed.

Now analyze the provided food with complete accuracy and honesty.`

func foodTextInput(name, description, allergies string) string {
	var sb strings.Builder
	sb.WriteString("Food: " + name)
	if description != "" {
		sb.WriteString("\nDetails: " + description)
	}
	if strings.TrimSpace(allergies) != "" {
		sb.WriteString("\n\nUSER HAS ALLERGIES: " + allergies)
		sb.WriteString(fmt.Sprintf("\nCRITICAL: You MUST check if '%s' contains ANY of these allergens: %s", name, allergies))
		sb.WriteString("\nIf it contains any allergen, set contains_allergens=true, pregnancy_safe=false, period_friendly=false")
	}
	return sb.String()
}

func simpleFoodPrompt(name string) string {
	if name == "" {
		name = "this food"
	}
	return fmt.Sprintf("Provide basic nutritional information for: %s. Return ONLY valid JSON with these fields: food_name (string), calories (number), protein (number), carbs (number), fats (number), fiber (number), pregnancy_safe (boolean), period_friendly (boolean), recommendations (string), suggested_foods (array of strings). Be honest about food safety. Numbers must be plain integers or floats without any units.", name)
}

func pregnancyChatPrompt(message string) string {
	return fmt.Sprintf("You are a supportive wellness guide specializing in pregnancy wellness and lifestyle. "+
		"Share general wellness information, healthy lifestyle tips, and supportive advice. "+
		"Question: %s\n\n"+
		"Provide warm, helpful lifestyle and wellness guidance. Format in markdown. "+
		"Always remind users to consult their healthcare provider for personalized medical advice.", message)
}

func simpleChatPrompt(message string) string {
	return fmt.Sprintf("Share 3 simple wellness tips related to: %s. Be brief and general. Focus on healthy lifestyle habits.", message)
}

var tipsTopics = map[string]string{
	"general":       "wellness and self-care during pregnancy",
	"nutrition":     "healthy eating and nutrition during pregnancy",
	"exercise":      "staying active and fit during pregnancy",
	"mental-health": "emotional wellness and stress relief during pregnancy",
	"trimester1":    "wellness tips for early pregnancy (weeks 1-12)",
	"trimester2":    "wellness tips for mid pregnancy (weeks 13-26)",
	"trimester3":    "wellness tips for late pregnancy (weeks 27-40)",
}

func tipsPrompt(topic string) string {
	desc, ok := tipsTopics[topic]
	if !ok {
		desc = "general pregnancy wellness"
	}
	return fmt.Sprintf("Share 5-7 practical lifestyle tips about %s. "+
		"Focus on healthy habits, wellness practices, and self-care. "+
		"Format as a simple markdown list. Be encouraging and supportive. "+
		"Keep it general and lifestyle-focused, not medical advice.", desc)
}

const affirmationPrompt = "Generate a beautiful 1-2 sentence affirmation for a pregnant woman. " +
	"Focus on strength, capability, and the beauty of pregnancy. " +
	"Be warm and encouraging. Include a relevant emoji at the end. " +
	"Output ONLY the affirmation text."

func mentalChatPrompt(message string) string {
	return fmt.Sprintf("You are an empathetic AI assistant for women's health mainly as a mental health therapist. "+
		"User asks: '%s' and you respond helpfully. Keep responses concise and friendly.", message)
}

func diseaseChatStructuredPrompt(message, context string) string {
	return fmt.Sprintf(`You are a medical ML prediction system. The user is asking: "%s"

Previous context: %s

Provide an ML-style structured prediction response with three ranked conditions, each with a name, confidence percentage, probability score and key indicators, followed by 2-3 additional insights and three clarifying questions that would improve accuracy. Use medical terminology and be precise.`, message, context)
}

func diseaseChatConversationalPrompt(message, context string) string {
	return fmt.Sprintf(`You are a helpful medical AI assistant discussing a previous disease prediction.

Previous prediction context: %s

User's question: "%s"

Provide a helpful, empathetic response that:
1. Directly answers their question
2. References specific parts of the prediction if relevant
3. Asks 1-2 follow-up questions to improve accuracy if needed
4. Suggests additional symptoms to watch for
5. Maintains supportive, clear tone
6. Reminds them this is for informational purposes

Keep response 2-4 paragraphs. Be conversational but professional.`, context, message)
}

// Canned fallbacks keep the single-shot endpoints best-effort: they are
// returned, clearly labeled, when the model is unreachable or refuses.

const fallbackChatReply = "Here are some general wellness tips:\n\n" +
	"- Eat a variety of nutritious whole foods including fruits, vegetables, whole grains, and lean proteins\n" +
	"- Stay well hydrated by drinking plenty of water throughout the day\n" +
	"- Get adequate rest and listen to your body\n" +
	"- Engage in gentle, approved physical activity\n" +
	"- Take your prenatal vitamins as recommended\n\n" +
	"Please consult your healthcare provider for personalized medical advice tailored to your specific situation."

var fallbackTips = map[string]string{
	"general":       "- Stay hydrated by drinking 8-10 glasses of water daily\n- Get 7-9 hours of quality sleep\n- Eat balanced meals with plenty of fruits and vegetables\n- Take gentle walks for light exercise\n- Practice relaxation techniques like deep breathing",
	"nutrition":     "- Eat a variety of colorful fruits and vegetables\n- Include lean proteins in your meals\n- Choose whole grains over refined grains\n- Stay hydrated throughout the day\n- Take your prenatal vitamins as directed",
	"exercise":      "- Try gentle prenatal yoga\n- Go for daily walks\n- Practice prenatal stretching\n- Stay hydrated during activity\n- Listen to your body and rest when needed",
	"mental-health": "- Practice daily meditation or mindfulness\n- Connect with supportive friends and family\n- Journal your thoughts and feelings\n- Get adequate rest and sleep\n- Engage in activities you enjoy",
}

const fallbackAffirmation = "You are strong, capable, and creating a beautiful life. Trust your journey. 💕"
