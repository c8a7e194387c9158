package model

// Session is the authenticated identity context. Beyond the user id
// and email it is opaque to the rest of the application; token
// handling lives with the session provider.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
