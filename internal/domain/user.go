package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong   = errors.New("password must be at most 72 characters long")
	ErrPasswordForbidden = errors.New("password cannot contain the word \"password\"")
	ErrNegativeAge       = errors.New("age cannot be negative")
)

// DefaultAge is assigned to users who register without an age.
const DefaultAge = 1337

// User represents a registered account that owns tasks.
// The plaintext Password field is only populated transiently during
// registration and profile updates; it is hashed before storage and
// never serialized. Avatar holds the normalized profile image bytes
// and is likewise excluded from JSON representations.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"` // Profile image, served via its own endpoint
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name, email and password.
// Name and email are normalized (trimmed, email lowercased) and a new
// UUID is generated. A nil age selects DefaultAge.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(name, email, password string, age *int) (*User, error) {
	userAge := DefaultAge
	if age != nil {
		userAge = *age
	}

	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  strings.TrimSpace(password), // Plaintext password - must be hashed before storage
		Age:       userAge,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address so the unique constraint on users.email is case-insensitive
// in practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	// During user creation/update we need to validate the provided password
	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else {
		// When no plaintext password is provided, the user must have a hashed
		// password (this would be the case for existing users in the database)
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
	}

	return nil
}

// ValidatePassword checks a plaintext password against the account rules:
// at least 6 characters, at most 72 (bcrypt's practical limit), and it
// must not contain the substring "password" in any casing.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// validateEmailFormat performs basic validation of email format.
// Request DTOs run the stricter go-playground/validator "email" rule;
// this is a last line of defense for users constructed in code.
func validateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t") {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := strings.Index(domainPart, ".")
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
