package models

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}
