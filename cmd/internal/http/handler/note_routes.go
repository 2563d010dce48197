package handler

import (
	"net/http"
	"sharednotes/cmd/internal/contract"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/apierror"
	"strconv"

	"github.com/labstack/echo/v4"
)

// NoteService receives the caller id resolved by the authentication gate.
// Ownership and sharing rules are enforced by the service, not here.
type NoteService interface {
	GetVisibleNotes(actorID int64) ([]*contract.NoteResponse, apierror.ErrorResponse)
	GetNoteByID(actorID, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	CreateNote(actorID int64, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(actorID, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNote(actorID, noteID int64) apierror.ErrorResponse
	SearchNotes(actorID int64, query string) ([]*contract.NoteResponse, apierror.ErrorResponse)
	ShareNote(actorID, noteID int64, req *contract.ShareNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := n.NoteService.GetVisibleNotes(userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (n *DefaultNoteRoute) SearchNotes(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := n.NoteService.SearchNotes(userID, c.QueryParam("q"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseNoteID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	note, apierr := n.NoteService.GetNoteByID(userID, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.CreateNote(userID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, note)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseNoteID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	var req contract.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.UpdateNote(userID, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) DeleteNote(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseNoteID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	if apierr := n.NoteService.DeleteNote(userID, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.MessageResponse{Message: "Note deleted successfully"})
}

func (n *DefaultNoteRoute) ShareNote(c echo.Context) error {
	userID, cerr := utils.GetUserIDFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseNoteID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	var req contract.ShareNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.ShareNote(userID, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := &contract.ShareNoteResponse{
		Message: "Note shared successfully",
		Note:    note,
	}
	return c.JSON(http.StatusOK, resp)
}

// parseNoteID rejects anything that is not a positive integer before the store is touched.
func parseNoteID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
