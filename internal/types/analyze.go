package types

// ChatRequest is a follow-up question about a previously returned analysis.
// The resume text and prior narrative are echoed back by the client; the
// server keeps no per-request document state outside the session cache.
type ChatRequest struct {
	ResumeText       string `json:"resume_text" validate:"required"`
	PreviousAnalysis string `json:"previous_analysis"`
	Question         string `json:"question" validate:"required"`
}

// ChatResponse carries the generated answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// FeedbackRequest is a user-submitted feedback message.
type FeedbackRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}
