package projects

import "time"

// Project groups documents under an organization. OwnerID is denormalized
// from the organization so lookups never need a join for access checks.
type Project struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"orgId"`
	OwnerID       string    `json:"-"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DocumentCount int       `json:"documents"`
	CreatedAt     time.Time `json:"createdAt"`
}
