package repository

import (
	"errors"
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/utils/uid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// Create inserts note, assigning it an id when it has none. Shares are not written.
func (d *DefaultNoteRepository) Create(note *entity.Note) error {
	if note.ID == 0 {
		note.ID = uid.Generate()
	}
	note.IndexText()
	return d.db.Omit(clause.Associations).Create(note).Error
}

func (d *DefaultNoteRepository) FindByID(id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.withShares().First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindVisibleTo returns the notes owned by or shared with userID,
// most recently updated first.
func (d *DefaultNoteRepository) FindVisibleTo(userID int64) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.visibleTo(userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindVisibleContaining narrows FindVisibleTo to notes whose title, content or tags
// contain at least one of the lowercase terms. Ranking is left to the caller.
// SQLite's LOWER and LIKE only fold ASCII, so terms are matched against search_text.
func (d *DefaultNoteRepository) FindVisibleContaining(userID int64, terms []string) ([]*entity.Note, error) {
	if len(terms) == 0 {
		return []*entity.Note{}, nil
	}

	matches := d.db.Where("1 = 0")
	for _, term := range terms {
		pattern := "%" + term + "%"
		matches = matches.Or("search_text LIKE ?", pattern)
	}

	var notes []*entity.Note
	err := d.visibleTo(userID).
		Where(matches).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Save persists the mutable fields of note. Shares are not written.
func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	note.IndexText()
	return d.db.Model(note).
		Select("title", "content", "tags", "search_text", "updated_at").
		Omit(clause.Associations).
		Updates(note).Error
}

// Delete permanently removes note and every share of it.
func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&entity.NoteShare{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Note{}, note.ID).Error
	})
}

// AddShare grants userID read access on note and bumps its update time to now.
// It fails with ErrAlreadyShared when the grant already exists.
func (d *DefaultNoteRepository) AddShare(note *entity.Note, userID int64, now int64) error {
	share := &entity.NoteShare{
		NoteID:    note.ID,
		UserID:    userID,
		CreatedAt: now,
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&entity.NoteShare{}).
			Where("note_id = ? AND user_id = ?", note.ID, userID).
			Count(&existing).Error
		if err != nil {
			return err
		}

		if existing > 0 {
			return ErrAlreadyShared
		}

		if err := tx.Create(share).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Note{}).
			Where("id = ?", note.ID).
			Update("updated_at", now).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyShared
	}

	if err != nil {
		return err
	}

	note.Shares = append(note.Shares, share)
	note.UpdatedAt = now
	return nil
}

func (d *DefaultNoteRepository) withShares() *gorm.DB {
	return d.db.Preload("Shares", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (d *DefaultNoteRepository) visibleTo(userID int64) *gorm.DB {
	shared := d.db.Model(&entity.NoteShare{}).
		Select("note_id").
		Where("user_id = ?", userID)

	return d.withShares().
		Where("owner_id = ? OR id IN (?)", userID, shared)
}
