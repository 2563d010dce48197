package service

import (
	"sharednotes/cmd/internal/domain/entity"
	"slices"
)

// noteUpdater acts as a "Change Set" context.
// It applies only the fields a request actually carries and tracks if a save is needed.
type noteUpdater struct {
	note *entity.Note

	// State
	dirty bool
}

// setString handles title and content: absent or empty values keep the current one.
func (u *noteUpdater) setString(newVal *string, targetField *string) {
	if newVal == nil || *newVal == "" {
		return
	}

	if *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}

// setTags replaces the tags whenever the request carries an array, even an empty one.
func (u *noteUpdater) setTags(newVal []string) {
	if newVal == nil {
		return
	}

	if slices.Equal(newVal, u.note.Tags) {
		return
	}

	u.note.Tags = slices.Clone(newVal)
	u.dirty = true
}
