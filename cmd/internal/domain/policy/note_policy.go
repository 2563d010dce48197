package policy

import (
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/utils/apierror"
)

// NotePolicy encapsulates all business rules for note access.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// Existence is checked before ownership: a caller that is neither owner nor
// shared-with user gets AccessDeniedError for an existing note, never NoteNotFoundError.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// CanRead allows the owner and every user the note is shared with.
func (p *NotePolicy) CanRead(note *entity.Note, actorID int64) apierror.ErrorResponse {
	if note == nil {
		return apierror.NoteNotFoundError
	}

	if note.IsOwnedBy(actorID) || note.IsSharedWith(actorID) {
		return nil
	}
	return apierror.AccessDeniedError
}

func (p *NotePolicy) CanUpdate(note *entity.Note, actorID int64) apierror.ErrorResponse {
	return ownerOnly(note, actorID)
}

func (p *NotePolicy) CanDelete(note *entity.Note, actorID int64) apierror.ErrorResponse {
	return ownerOnly(note, actorID)
}

func (p *NotePolicy) CanShare(note *entity.Note, actorID int64) apierror.ErrorResponse {
	return ownerOnly(note, actorID)
}

func ownerOnly(note *entity.Note, actorID int64) apierror.ErrorResponse {
	if note == nil {
		return apierror.NoteNotFoundError
	}

	// Shared-with users are read-only
	if !note.IsOwnedBy(actorID) {
		return apierror.AccessDeniedError
	}
	return nil
}
