package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this email"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// PersistenceError reports a failed call to the persistence layer.
// Message is safe to show to the user; Err keeps the underlying cause.
type PersistenceError struct {
	Op      string
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UploadError reports a failed upload to blob storage
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Entity Not Found Errors
var (
	ErrPlayerNotFound = &NotFoundError{Entity: "player"}
	ErrTeamNotFound   = &NotFoundError{Entity: "team"}
	ErrUserNotFound   = &NotFoundError{Entity: "user"}
	ErrBlobNotFound   = &NotFoundError{Entity: "blob"}
)

// Already Exists Errors
var (
	ErrUserExists = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrBlobExists = &AlreadyExistsError{Entity: "blob", Context: "at this path"}
)

// Console Errors
var (
	ErrBusy            = errors.New("another operation is still in progress")
	ErrNoPendingDelete = errors.New("there is no delete waiting for confirmation")
	ErrNothingToSave   = errors.New("no form is open")
)

// Authentication and Authorization Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid email or password"}
	ErrNotSignedIn        = &AuthenticationError{Message: "sign in required"}
	ErrSessionRevoked     = &AuthenticationError{Message: "session has been signed out"}
	ErrEditDenied         = &AuthorizationError{Message: "only the admin can edit"}
	ErrDeleteDenied       = &AuthorizationError{Message: "only the admin can delete"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsPersistence checks if an error is a PersistenceError
func IsPersistence(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr)
}

// IsUpload checks if an error is an UploadError
func IsUpload(err error) bool {
	var uploadErr *UploadError
	return errors.As(err, &uploadErr)
}

// Message returns the user-facing text for err
func Message(err error) string {
	var persistenceErr *PersistenceError
	if errors.As(err, &persistenceErr) {
		return persistenceErr.Message
	}
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return "photo upload failed, nothing was saved"
	}
	return err.Error()
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewPersistenceError wraps a persistence failure with a readable message
func NewPersistenceError(op, message string, err error) error {
	return &PersistenceError{Op: op, Message: message, Err: err}
}

// NewUploadError wraps a blob storage failure for path
func NewUploadError(path string, err error) error {
	return &UploadError{Path: path, Err: err}
}
