package service

import (
	"sharednotes/cmd/internal/contract"
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/utils"
	"strconv"
)

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	sharedWith := make([]string, len(note.Shares))
	for i, share := range note.Shares {
		sharedWith[i] = strconv.FormatInt(share.UserID, 10)
	}

	return &contract.NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		Tags:       tags,
		OwnerID:    note.OwnerID,
		SharedWith: sharedWith,
		CreatedAt:  utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(note.UpdatedAt),
	}
}

func toNoteResponses(notes []*entity.Note) []*contract.NoteResponse {
	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
