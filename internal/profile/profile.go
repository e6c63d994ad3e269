package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength bounds a learner's display name.
const MaxNameLength = 40

// Profile is one learner.
type Profile struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// New creates a profile with a fresh UUID.
func New(name string, now time.Time) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("profile name is empty")
	}
	if len([]rune(name)) > MaxNameLength {
		return Profile{}, fmt.Errorf("profile name exceeds %d characters", MaxNameLength)
	}
	return Profile{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
	}, nil
}

// ValidID reports whether id is a well-formed profile ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}
