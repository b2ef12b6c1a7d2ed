package handler

// errorResponse documents the central error envelope for swagger.
type errorResponse struct {
	Error string `json:"error"`
}
