// Package response holds the JSON envelopes returned by the admin API.
package response

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

var (
	EmptyRequestBodyResponse   = Error("Request body is empty")
	InvalidRequestBodyResponse = Error("Invalid request body")
	InvalidURLResponse         = Error("Invalid URL provided")
	InvalidPathResponse        = Error("Custom path can only contain letters, numbers, hyphens, and underscores")
	PathTakenResponse          = Error("Custom path already exists. Please choose a different one.")
	InvalidUpdateResponse      = Error("Invalid path or URL provided")
	PathRequiredResponse       = Error("Path is required")
	LinkNotFoundResponse       = Error("Short URL not found")
	FetchLinksErrorResponse    = Error("Failed to fetch links")
	RouteNotFoundResponse      = Error("API endpoint not found")
	MethodNotAllowedResponse   = Error("Method not allowed")
	ServerErrorResponse        = Error("Internal server error")
)

// ShortenResponse is returned by a successful shorten request.
type ShortenResponse struct {
	ShortURL  string `json:"shortUrl"`
	Path      string `json:"path"`
	TargetURL string `json:"targetUrl"`
}

// UpdateResponse is returned by a successful update request.
type UpdateResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	NewURL  string `json:"newUrl"`
}

// DeleteResponse is returned by a successful delete request.
type DeleteResponse struct {
	Success     bool   `json:"success"`
	DeletedPath string `json:"deletedPath"`
}
