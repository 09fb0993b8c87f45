package domain

import "errors"

var (
	// ErrTeamNotFound indicates that the team is not found.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamNameAlreadyExists indicates that a team with the given name already exists.
	ErrTeamNameAlreadyExists = errors.New("team name already exists")
	// ErrEmptyTeam indicates a bulk operation on a team with no members.
	ErrEmptyTeam = errors.New("team has no members")
)

// Team is a named grouping of accounts used for bulk operations and display.
// Teams do not own their members; deleting a team only clears the reference.
type Team struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}
