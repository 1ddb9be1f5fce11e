package organizations

import "time"

// Organization is the top-level tenant boundary. Every project and
// document hangs off exactly one organization, owned by one user.
type Organization struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Type         string    `json:"type,omitempty"`
	TeamStrength string    `json:"teamStrength,omitempty"`
	Logo         string    `json:"logo,omitempty"`
	ProjectCount int       `json:"projects"`
	CreatedAt    time.Time `json:"createdAt"`
}
