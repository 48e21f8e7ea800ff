package services

import "fmt"

// analysisPrompt instructs the model to pull every test result out of the
// report and reply with the exact Analysis schema. The caller truncates
// reportText to the character budget before assembly.
func analysisPrompt(reportText string) string {
	return fmt.Sprintf(`You are a medical data extractor. Extract EVERY single test result from this report.

Return a JSON object with this EXACT structure:
{
  "summary": "A brief overview of the patient's health status (2-3 sentences).",
  "risk_areas": ["List of abnormal values (High/Low)"],
  "moderate_areas": ["List of borderline values"],
  "healthy_areas": ["List of normal values"],
  "all_metrics": [
    {
      "name": "Test Name (e.g. Hemoglobin)",
      "value": "Measured Value (e.g. 14.2)",
      "unit": "Unit (e.g. g/dL)",
      "normal_range": "Reference Range (e.g. 13.0 - 17.0)"
    }
  ]
}

RULES:
1. Do not miss any test. Extract them all.
2. If a range is not provided, put "N/A".
3. Return ONLY valid JSON.

Report: %s`, reportText)
}

// chatSystemPrompt embeds the session's context window (full report text or
// retrieved passages) plus the ChatTurn schema the frontend renders.
func chatSystemPrompt(contextText string) string {
	return fmt.Sprintf(`You are a medical AI assistant. You have full access to the patient's report below.
RULES:
1. Answer the user's question strictly based on the report text.
2. If the user asks about a specific metric (like 'Apolipoprotein'), FIND IT in the text below.
3. Return the response in strictly valid JSON format.

JSON STRUCTURE:
{
  "answer": "Your conversational answer here.",
  "visualization": {
      "metric": "Exact Name from Report",
      "value": 46.0,
      "unit": "mg/dL",
      "status": "High/Low/Normal",
      "min": 0,
      "max": 100
  } OR null
}

REPORT TEXT:
%s`, contextText)
}
