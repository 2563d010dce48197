package sqlite

import (
	"sharednotes/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the SQLite database at dsn (":memory:" for a throwaway one)
// and migrates the schema.
//
// A single connection is kept open, so the store serializes every write.
func Init(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	err = db.AutoMigrate(&entity.User{}, &entity.Note{}, &entity.NoteShare{})
	if err != nil {
		return nil, err
	}

	if err := backfillSearchText(db); err != nil {
		return nil, err
	}
	return db, nil
}

// backfillSearchText indexes notes written before the search_text column existed.
func backfillSearchText(db *gorm.DB) error {
	var notes []*entity.Note
	return db.Where("search_text = ?", "").
		FindInBatches(&notes, 200, func(_ *gorm.DB, _ int) error {
			for _, note := range notes {
				note.IndexText()
				err := db.Model(note).Update("search_text", note.SearchText).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

