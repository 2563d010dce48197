package entity

import (
	"slices"
	"strings"
)

type Note struct {
	ID        int64    `gorm:"primaryKey;autoIncrement:false"`
	Title     string   `gorm:"not null"`
	Content   string   `gorm:"not null"`
	Tags      []string `gorm:"not null;serializer:json"`
	OwnerID   int64    `gorm:"not null;index"` // References: users(id)
	CreatedAt int64    `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64    `gorm:"not null;index;autoUpdateTime:false"`

	// Title, content and tags lowercased in Go for the search prefilter
	SearchText string `gorm:"not null;default:''"`

	// Relations, ordered by share time
	Shares []*NoteShare `gorm:"foreignKey:NoteID;references:ID;constraint:OnDelete:CASCADE;"`
}

// NoteShare grants read access on a note to a user other than its owner.
type NoteShare struct {
	ID        int64 `gorm:"primaryKey"`
	NoteID    int64 `gorm:"not null;uniqueIndex:idx_note_share_note_user"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_note_share_note_user;index"`
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"`
}

// SharedWith returns the ids of the users the note is shared with, in share order.
func (n *Note) SharedWith() []int64 {
	ids := make([]int64, len(n.Shares))
	for i, s := range n.Shares {
		ids[i] = s.UserID
	}
	return ids
}

func (n *Note) IsOwnedBy(userID int64) bool {
	return n.OwnerID == userID
}

func (n *Note) IsSharedWith(userID int64) bool {
	return slices.Contains(n.SharedWith(), userID)
}

// IndexText recomputes SearchText from the current title, content and tags.
func (n *Note) IndexText() {
	n.SearchText = strings.ToLower(n.Title + "\n" + n.Content + "\n" + strings.Join(n.Tags, " "))
}
