package dto

type AnalyzePageRequest struct {
	Text string `json:"text" validate:"required"`
}

type AnalyzePageResponse struct {
	HasRedFlags bool     `json:"hasRedFlags"`
	Questions   []string `json:"questions"`
}

type RewriteRequest struct {
	Text string `json:"text" validate:"required"`
}

type RewriteResponse struct {
	// Suggestion is empty when the text does not need a rewrite.
	Suggestion string `json:"suggestion"`
}
