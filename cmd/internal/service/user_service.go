package service

import (
	"errors"
	"sharednotes/cmd/internal/contract"
	"sharednotes/cmd/internal/domain/entity"
	"sharednotes/cmd/internal/domain/sqlite/repository"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/apierror"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type UserService struct {
	UserRepo UserRepository
	Tokens   TokenIssuer
	Validate *validator.Validate
	now      func() int64
}

func NewUserService(userRepo UserRepository, tokens TokenIssuer, validate *validator.Validate) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Validate: validate,
		now:      utils.NowUTC,
	}
}

// Signup creates the account and hands back a token for it straight away.
func (u *UserService) Signup(req *contract.SignupRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.CreateUser(req.Username, req.Email, req.Password)
	if errors.Is(err, repository.ErrDuplicateIdentity) {
		return nil, apierror.DuplicateIdentityError
	}

	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}

	return u.authResponse(user, "User created successfully")
}

// Login never tells an unknown email apart from a wrong password.
func (u *UserService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		utils.BurnPasswordCheck(req.Password)
		return nil, apierror.InvalidLoginError
	}

	if !u.VerifyPassword(user, req.Password) {
		return nil, apierror.InvalidLoginError
	}

	return u.authResponse(user, "Logged in successfully")
}

// CreateUser hashes password and stores a new user.
// It fails with repository.ErrDuplicateIdentity when the username or email is taken.
func (u *UserService) CreateUser(username, email, password string) (*entity.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserService) VerifyPassword(user *entity.User, plain string) bool {
	return utils.CheckPassword(user.PasswordHash, plain)
}

func (u *UserService) authResponse(user *entity.User, msg string) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := u.Tokens.Issue(user.ID)
	if err != nil {
		log.Errorf("failed to issue token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		Message: msg,
		User:    toUserResponse(user),
		Token:   token,
	}, nil
}
