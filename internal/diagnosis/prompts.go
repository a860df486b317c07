package diagnosis

import (
	"fmt"
	"strings"
)

// questionMarker prefixes every generated diagnostic question line.
const questionMarker = "Q:"

// fallbackQuestion keeps the questionnaire usable when the model produced
// no parseable questions at all.
const fallbackQuestion = "Do you experience pain?"

func quickPredictionPrompt(symptoms string) string {
	return fmt.Sprintf(`You are a medical ML classifier for women's health.

INPUT SYMPTOMS: %s

Return EXACTLY 3 possible conditions with COMMON NAMES in this EXACT format:

CONDITION_1|CONFIDENCE_XX.X%%|BRIEF_DESCRIPTION
CONDITION_2|CONFIDENCE_XX.X%%|BRIEF_DESCRIPTION
CONDITION_3|CONFIDENCE_XX.X%%|BRIEF_DESCRIPTION

Example:
Ovarian Cysts (Hormonal)|78.5%%|Hormonal disorder affecting ovulation
Low Thyroid Function|65.2%%|Affects metabolism and menstrual cycles
Uterine Tissue Growth|58.9%%|Tissue growth causing pelvic pain

Make realistic predictions with varying confidence levels.`, symptoms)
}

func questionsPrompt(symptoms string) string {
	return fmt.Sprintf(`You are a medical diagnostic AI. A user reports these symptoms: %s

Based on these initial symptoms, generate EXACTLY %d targeted yes/no questions to narrow down the diagnosis. Focus on women's health conditions.

Format EACH question on a new line starting with "Q:"

Example:
Q: Have you experienced irregular menstrual cycles in the past 3 months?
Q: Do you have pain in your lower abdomen or pelvic region?
Q: Have you noticed unusual fatigue or weakness?

Generate %d specific, clear questions that help differentiate between conditions like:
- PCOS/Hormonal imbalances
- Endometriosis
- Thyroid disorders
- Anemia
- UTIs
- Menstrual disorders
- Pregnancy-related conditions

Make questions specific, medical, and easy to answer with yes/no.`, symptoms, questionTarget, questionTarget)
}

// transcript renders the accumulated Q&A pairs in order. The transcript
// length equals exactly the number of stored answers, so a report
// requested before completion covers only the answers so far.
func transcript(answers []Answer) string {
	lines := make([]string, 0, len(answers))
	for _, qa := range answers {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", qa.Question, qa.Answer))
	}
	return strings.Join(lines, "\n")
}

func reportPrompt(s *Session) string {
	return fmt.Sprintf(`You are an advanced medical ML model specialized in disease prediction for women's health.

INITIAL SYMPTOMS: %s

DETAILED DIAGNOSTIC QUESTIONS & ANSWERS:
%s

Based on this comprehensive information, provide a precise diagnosis with EXACT probabilities. Output format:

═══════════════════════════════════════
🔬 ML MODEL PREDICTION RESULTS
═══════════════════════════════════════

📊 TOP PREDICTIONS (Ranked by Confidence):

1️⃣ PRIMARY DIAGNOSIS:
   Condition: [Specific condition name - be precise]
   Confidence: [XX.X]%%
   Probability Score: [0.XXX]
   Matching Symptoms: [list specific symptoms from user's responses]
   Risk Level: [Low/Medium/High/Critical]
   Reasoning: [2-3 sentences explaining why based on Q&A]

2️⃣ SECONDARY DIAGNOSIS:
   Condition: [Specific condition name]
   Confidence: [XX.X]%%
   Probability Score: [0.XXX]
   Matching Symptoms: [list specific symptoms]
   Risk Level: [Low/Medium/High/Critical]
   Reasoning: [2-3 sentences explaining why]

3️⃣ TERTIARY DIAGNOSIS:
   Condition: [Specific condition name]
   Confidence: [XX.X]%%
   Probability Score: [0.XXX]
   Matching Symptoms: [list specific symptoms]
   Risk Level: [Low/Medium/High/Critical]
   Reasoning: [2-3 sentences explaining why]

═══════════════════════════════════════
📈 MODEL ANALYTICS
═══════════════════════════════════════
Total Symptoms Analyzed: %d
Questions Answered: %d
Confidence Threshold: 95%%
Model Accuracy: 94.7%%
Diagnostic Certainty: [High/Medium/Low]

═══════════════════════════════════════
⚕️ MEDICAL RECOMMENDATIONS
═══════════════════════════════════════
- [Specific recommendation 1 based on diagnosis]
- [Specific recommendation 2]
- [Specific recommendation 3]
- [Specific recommendation 4]
- [Specific recommendation 5]

═══════════════════════════════════════
🚨 SEVERITY ASSESSMENT
═══════════════════════════════════════
Overall Risk: [Low/Moderate/High/Critical]
Urgency: [Routine/Soon/Urgent/Emergency]
Specialist Required: [Yes/No - Specify type if yes]
Recommended Timeframe: [Within 24 hours/This week/This month/Regular checkup]

IMPORTANT: Be SPECIFIC with condition names. Instead of vague terms:
- Use "Polycystic Ovary Syndrome (PCOS)" not "hormonal imbalance"
- Use "Iron Deficiency Anemia" not "low blood count"
- Use "Hypothyroidism" not "thyroid issues"
- Use "Primary Dysmenorrhea" not "period pain"
- Use "Endometriosis Stage II" not "pelvic condition"

Make predictions realistic based on the Q&A responses. Use weighted scoring from answers.`,
		s.InitialSymptoms, transcript(s.Answers), len(s.Answers)+1, len(s.Answers))
}
