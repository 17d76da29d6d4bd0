// Package api provides an HTTP API server over the shared document store.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}
