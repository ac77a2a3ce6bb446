package dto

type VertexGenerateRequest struct {
	Model           string
	System          string
	UserMessage     string
	Temperature     *float32
	MaxOutputTokens *int32
	// ResponseMIMEType asks the model for a specific output format,
	// e.g. "application/json".
	ResponseMIMEType string
}

type VertexGenerateResponse struct {
	Text         string
	FinishReason string
	Raw          any
}
