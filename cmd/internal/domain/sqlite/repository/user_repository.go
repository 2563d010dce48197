package repository

import (
	"errors"
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/utils/uid"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// Create inserts user, assigning it an id when it has none.
// It fails with ErrDuplicateIdentity when the username or the email is taken.
func (u *DefaultUserRepository) Create(user *entity.User) error {
	if user.ID == 0 {
		user.ID = uid.Generate()
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&entity.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&taken).Error
		if err != nil {
			return err
		}

		if taken > 0 {
			return ErrDuplicateIdentity
		}
		return tx.Create(user).Error
	})

	// The unique indexes still guard against a racing insert
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateIdentity
	}
	return err
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	return u.findOne("email = ?", email)
}

func (u *DefaultUserRepository) FindByUsername(username string) (*entity.User, error) {
	return u.findOne("username = ?", username)
}

func (u *DefaultUserRepository) findOne(query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := u.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}
