// Package integrity enforces the reference rules between projects, tasks,
// comments, team memberships and users.
//
// Every rule runs against a transaction-bound store.Repositories and
// reports what it did as a list of Effects so callers can log the
// outcome of a delete. A rule that rejects an operation returns an error
// wrapping ErrConflict together with the Rejected effect that explains it.
package integrity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// Conflict errors returned by the rules.
var (
	// ErrConflict is the root of every rule rejection.
	ErrConflict = errors.New("conflict")

	// ErrProjectHasTasks is returned when deleting a project that still owns tasks.
	ErrProjectHasTasks = fmt.Errorf("%w: project still owns tasks", ErrConflict)

	// ErrUserHasComments is returned when deleting a user who authored comments.
	ErrUserHasComments = fmt.Errorf("%w: user authored comments", ErrConflict)

	// ErrMemberExists is returned when adding a user who is already on the project team.
	ErrMemberExists = fmt.Errorf("%w: user is already a team member", ErrConflict)
)

// Outcome describes how a rule treated dependent records.
type Outcome string

// Possible outcomes
const (
	Cascaded     Outcome = "cascaded"
	Rejected     Outcome = "rejected"
	FieldCleared Outcome = "field_cleared"
)

// Effect records one consequence of applying a rule.
type Effect struct {
	Outcome Outcome `json:"outcome"`
	Entity  string  `json:"entity"`
	Count   int     `json:"count"`
}

// Entity names used in effects.
const (
	EntityTask           = "task"
	EntityComment        = "comment"
	EntityTeamMember     = "team_member"
	EntityTaskAssignee   = "task.assignee"
	EntityProjectManager = "project.manager"
)

// DeleteProject removes a project that owns no tasks, along with its team
// memberships.
func DeleteProject(ctx context.Context, repos store.Repositories, projectID int64) ([]Effect, error) {
	if _, err := repos.Projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	owned, err := repos.Tasks.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count project tasks: %w", err)
	}
	if owned > 0 {
		return []Effect{{Outcome: Rejected, Entity: EntityTask, Count: owned}},
			fmt.Errorf("%w: %d task(s)", ErrProjectHasTasks, owned)
	}

	removed, err := repos.Members.DeleteByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove project team: %w", err)
	}
	if err := repos.Projects.Delete(ctx, projectID); err != nil {
		return nil, mapReferenced(err, ErrProjectHasTasks)
	}
	return []Effect{{Outcome: Cascaded, Entity: EntityTeamMember, Count: removed}}, nil
}

// DeleteTask removes a task and every comment on it.
func DeleteTask(ctx context.Context, repos store.Repositories, taskID int64) ([]Effect, error) {
	if _, err := repos.Tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	removed, err := repos.Comments.DeleteByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove task comments: %w", err)
	}
	if err := repos.Tasks.Delete(ctx, taskID); err != nil {
		return nil, err
	}
	return []Effect{{Outcome: Cascaded, Entity: EntityComment, Count: removed}}, nil
}

// ClearAssignment unassigns every task currently assigned to the user.
func ClearAssignment(ctx context.Context, repos store.Repositories, userID uuid.UUID) (Effect, error) {
	n, err := repos.Tasks.ClearAssignee(ctx, userID)
	if err != nil {
		return Effect{}, fmt.Errorf("failed to clear task assignments: %w", err)
	}
	return Effect{Outcome: FieldCleared, Entity: EntityTaskAssignee, Count: n}, nil
}

// RejectUserDeletionIfCommented fails with ErrUserHasComments when the
// user authored at least one comment.
func RejectUserDeletionIfCommented(ctx context.Context, repos store.Repositories, userID uuid.UUID) (*Effect, error) {
	n, err := repos.Comments.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count authored comments: %w", err)
	}
	if n > 0 {
		return &Effect{Outcome: Rejected, Entity: EntityComment, Count: n},
			fmt.Errorf("%w: %d comment(s)", ErrUserHasComments, n)
	}
	return nil, nil
}

// DeleteUser removes a user reference. Authored comments block the
// delete; assignments and project manager references are cleared and
// team memberships are removed.
func DeleteUser(ctx context.Context, repos store.Repositories, userID uuid.UUID) ([]Effect, error) {
	if _, err := repos.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if rejected, err := RejectUserDeletionIfCommented(ctx, repos, userID); err != nil {
		if rejected != nil {
			return []Effect{*rejected}, err
		}
		return nil, err
	}

	assigned, err := ClearAssignment(ctx, repos, userID)
	if err != nil {
		return nil, err
	}

	managed, err := repos.Projects.ClearManager(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear project managers: %w", err)
	}

	memberships, err := repos.Members.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove team memberships: %w", err)
	}

	if err := repos.Users.Delete(ctx, userID); err != nil {
		return nil, mapReferenced(err, ErrUserHasComments)
	}

	return []Effect{
		assigned,
		{Outcome: FieldCleared, Entity: EntityProjectManager, Count: managed},
		{Outcome: Cascaded, Entity: EntityTeamMember, Count: memberships},
	}, nil
}

// AddTeamMember links the user to the project. Both must exist and the
// pair must not already be present.
func AddTeamMember(ctx context.Context, repos store.Repositories, projectID int64, userID uuid.UUID) error {
	if _, err := repos.Projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	if _, err := repos.Users.GetByID(ctx, userID); err != nil {
		return err
	}

	exists, err := repos.Members.Exists(ctx, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to check team membership: %w", err)
	}
	if exists {
		return ErrMemberExists
	}

	err = repos.Members.Add(ctx, domain.TeamMember{ProjectID: projectID, UserID: userID})
	if errors.Is(err, store.ErrMemberExists) {
		return fmt.Errorf("%w: %v", ErrMemberExists, err)
	}
	return err
}

// RemoveTeamMember unlinks the user from the project. It returns
// store.ErrMemberNotFound when the pair is absent.
func RemoveTeamMember(ctx context.Context, repos store.Repositories, projectID int64, userID uuid.UUID) error {
	return repos.Members.Remove(ctx, projectID, userID)
}

// mapReferenced turns a restricted-reference failure from the store into
// the matching rule conflict. This covers rows added concurrently after
// the rule's own check.
func mapReferenced(err, conflict error) error {
	if errors.Is(err, store.ErrReferenced) {
		return fmt.Errorf("%w: %v", conflict, err)
	}
	return err
}
