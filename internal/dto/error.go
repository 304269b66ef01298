package dto

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse is returned with 422 when a draft breaks a ledger invariant.
type ValidationErrorResponse struct {
	ErrorKind   string `json:"errorKind"`
	Detail      string `json:"detail"`
	LineIndex   *int   `json:"lineIndex,omitempty"`
	AccountCode string `json:"accountCode,omitempty"`
}
