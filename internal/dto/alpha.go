package dto

// Alpha Vantage soft failure codes.
const (
	AlphaRateLimited = "rate_limited"
	AlphaError       = "alpha_error"
	AlphaInformation = "alpha_information"
)

type AlphaQuery struct {
	Function   string
	Symbol     string
	OutputSize string
}

// AlphaResponse carries either a payload or a soft failure reported in the
// body of a 200 response.
type AlphaResponse struct {
	Payload map[string]any
	Cached  bool
	Code    string
	Message string
}

func (r AlphaResponse) Failed() bool {
	return r.Code != ""
}
