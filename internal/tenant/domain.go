// Package tenant manages the company catalog and the active-company context
// of a portal session. Every report fetch runs against the backend of the
// company currently selected in the session.
package tenant

import "time"

// Company is one backend data partition a user may operate against.
type Company struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	APIBaseURL string    `json:"-"`
	APIToken   string    `json:"-"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"-"`
}
