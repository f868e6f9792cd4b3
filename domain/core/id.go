package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	SurveyID ID
	UserID   ID
)

func (id RunID) String() string    { return ID(id).String() }
func (id SurveyID) String() string { return ID(id).String() }
func (id UserID) String() string   { return ID(id).String() }

// NewRunID identifies one pipeline execution.
func NewRunID() RunID { return RunID(NewID()) }

// NewSurveyID identifies one assembled survey.
func NewSurveyID() SurveyID { return SurveyID("survey_" + NewID().String()) }

// AnonymousUser is attributed when the caller supplies no user id.
const AnonymousUser UserID = "anonymous"

// ParseUserID normalizes a caller-supplied user id, defaulting to AnonymousUser.
func ParseUserID(s string) UserID {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnonymousUser
	}
	return UserID(s)
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// UUID returns the uuid form of a user id. Non-uuid ids are mapped onto a
// stable name-based uuid so they can be stored in uuid columns.
func (id UserID) UUID() uuid.UUID {
	if parsed, err := uuid.Parse(string(id)); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
}
