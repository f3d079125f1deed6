package domain

import "github.com/google/uuid"

// TeamMember links a user to a project. A (ProjectID, UserID) pair
// appears at most once.
type TeamMember struct {
	ProjectID int64     `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
}
