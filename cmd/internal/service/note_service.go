package service

import (
	"errors"
	"sharednotes/cmd/internal/contract"
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/domain/policy"
	"sharednotes/cmd/internal/domain/search"
	"sharednotes/cmd/internal/domain/sqlite/repository"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/apierror"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	Create(note *entity.Note) error
	FindByID(id int64) (*entity.Note, error)
	FindVisibleTo(userID int64) ([]*entity.Note, error)
	FindVisibleContaining(userID int64, terms []string) ([]*entity.Note, error)
	Save(note *entity.Note) error
	Delete(note *entity.Note) error
	AddShare(note *entity.Note, userID int64, now int64) error
}

type DefaultNoteService struct {
	NoteRepo   NoteRepository
	UserRepo   UserRepository
	NotePolicy *policy.NotePolicy
	Validate   *validator.Validate
	now        func() int64
}

func NewNoteService(
	noteRepo NoteRepository,
	userRepo UserRepository,
	notePolicy *policy.NotePolicy,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:   noteRepo,
		UserRepo:   userRepo,
		NotePolicy: notePolicy,
		Validate:   validate,
		now:        utils.NowUTC,
	}
}

// GetVisibleNotes lists every note the actor owns or has been shared, most recently updated first.
func (n *DefaultNoteService) GetVisibleNotes(actorID int64) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindVisibleTo(actorID)
	if err != nil {
		log.Errorf("failed to fetch notes visible to %d: %v", actorID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

func (n *DefaultNoteService) GetNoteByID(actorID, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := n.NotePolicy.CanRead(note, actorID); perr != nil {
		return nil, perr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(actorID int64, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := n.now()
	note := &entity.Note{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags,
		OwnerID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.NoteRepo.Create(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) UpdateNote(actorID, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := n.NotePolicy.CanUpdate(note, actorID); perr != nil {
		return nil, perr
	}

	updater := &noteUpdater{note: note}
	updater.setString(req.Title, &note.Title)
	updater.setString(req.Content, &note.Content)
	updater.setTags(req.Tags)

	if updater.dirty {
		note.UpdatedAt = n.now()
		if err := n.NoteRepo.Save(note); err != nil {
			log.Errorf("actor %d failed to update note %d: %v", actorID, noteID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) DeleteNote(actorID, noteID int64) apierror.ErrorResponse {
	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return apierr
	}

	if perr := n.NotePolicy.CanDelete(note, actorID); perr != nil {
		return perr
	}

	if err := n.NoteRepo.Delete(note); err != nil {
		log.Errorf("failed to delete note %d: %v", noteID, err)
		return apierror.InternalServerError
	}
	return nil
}

// SearchNotes runs a text search over the notes visible to the actor, best match first.
func (n *DefaultNoteService) SearchNotes(actorID int64, rawQuery string) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, apierror.MissingSearchQueryError
	}

	query := search.Parse(rawQuery)
	if query.IsEmpty() {
		return []*contract.NoteResponse{}, nil
	}

	candidates, err := n.NoteRepo.FindVisibleContaining(actorID, query.Candidates())
	if err != nil {
		log.Errorf("failed to search notes for %d: %v", actorID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(search.Rank(query, candidates)), nil
}

// ShareNote grants read access on the note to the user named in the request.
func (n *DefaultNoteService) ShareNote(actorID, noteID int64, req *contract.ShareNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := n.NotePolicy.CanShare(note, actorID); perr != nil {
		return nil, perr
	}

	target, err := n.UserRepo.FindByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to find user (%s) by username: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	if target == nil {
		return nil, apierror.UserNotFoundError
	}

	// The owner never appears in its own share list
	if note.IsOwnedBy(target.ID) {
		return nil, apierror.ShareWithOwnerError
	}

	if slices.Contains(note.SharedWith(), target.ID) {
		return nil, apierror.AlreadySharedError
	}

	err = n.NoteRepo.AddShare(note, target.ID, n.now())
	if errors.Is(err, repository.ErrAlreadyShared) {
		return nil, apierror.AlreadySharedError
	}

	if err != nil {
		log.Errorf("failed to share note %d with user %d: %v", noteID, target.ID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) fetchNote(noteID int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return note, nil
}
