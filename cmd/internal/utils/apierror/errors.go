package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	InvalidIDError          = NewSimple(400, "The provided ID is invalid, IDs are positive integers")
	MissingSearchQueryError = NewSimple(400, "Search query is required")
	RouteNotFoundError      = NewSimple(404, "Resource not found")
	TooManyRequestsError    = NewSimple(429, "Too many requests, please try again later")

	/*
	 * Used for authentications
	 */
	DuplicateIdentityError = NewSimple(400, "User with this email or username already exists")
	InvalidLoginError      = NewSimple(401, "Invalid login credentials")
	UnauthorizedError      = NewSimple(401, "Please authenticate")

	/*
	 * Used for notes
	 */
	AccessDeniedError   = NewSimple(403, "Access denied")
	NoteNotFoundError   = NewSimple(404, "Note not found")
	UserNotFoundError   = NewSimple(404, "User not found")
	AlreadySharedError  = NewSimple(400, "Note already shared with this user")
	ShareWithOwnerError = NewSimple(400, "Cannot share a note with its owner")
)

// FromValidationError maps validator failures to a field keyed StructuredError.
// Anything that is not a validator.ValidationErrors is a programming error.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return InternalServerError
	}

	problems := NewStructured(http.StatusBadRequest)
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems.Add(field, "This field is required")
		case "min":
			problems.Add(field, "Value is too short, min: "+fe.Param())
		case "max":
			problems.Add(field, "Value is too long, max: "+fe.Param())
		case "email":
			problems.Add(field, "Value must be a valid email address")
		case "nodupes":
			problems.Add(field, "Value must not contain duplicates")
		case "nospaces":
			problems.Add(field, "Value must not contain whitespaces")

		default:
			problems.Add(field, "Invalid value provided")
		}
	}
	return problems
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}
