// Package entity holds the request and response shapes of the web layer.
package entity

// AuthForm is posted by both the login and the signup form.
type AuthForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Health is the body of GET /health.
type Health struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Database     bool   `json:"database"`
	ModelLoaded  bool   `json:"modelLoaded"`
	ModelVersion string `json:"modelVersion,omitempty"`
}
