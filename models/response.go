package models

// AnalyzeResponse is the body of POST /analyze. Analysis is a JSON-encoded
// string containing the Analysis object, kept as a string so degraded
// fallbacks and model output travel through the same field.
type AnalyzeResponse struct {
	SessionID string `json:"session_id"`
	Analysis  string `json:"analysis"`
}
