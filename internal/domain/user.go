package domain

import (
	"strings"

	"github.com/google/uuid"
)

// UnassignedLabel is shown wherever a task has no assignee.
const UnassignedLabel = "Unassigned"

// User is a reference to an identity owned by the external identity
// provider. Only the fields needed for display are kept here.
type User struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// DisplayName returns "First Last", falling back to the user name when
// neither part is set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.UserName
	}
	return name
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(u.UserName) == "" {
		return NewValidationError("user_name", "cannot be empty", ErrValidation)
	}
	return nil
}
