package models

import "strings"

// Keys used in the credential store.
const (
	KeyUsername = "username"
	KeyPassword = "password"
	KeyBaseURL  = "baseUrl"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
	BaseURL  string `json:"baseUrl"`
}

// Complete reports whether all three fields are set. No request is made
// against the backend with incomplete credentials.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != "" && c.BaseURL != ""
}

// Endpoint joins the base URL and path, tolerating a trailing slash on the base.
func (c Credentials) Endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}
