package models

// ChatRequest is the JSON body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
}
