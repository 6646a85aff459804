package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a single address-book entry. ID, OwnerID and CreatedAt are
// assigned at creation and never change; the remaining fields are replaceable
// through updates.
type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `json:"ownerId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	Age       int       `json:"age" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactFields holds the mutable fields of a contact. Construct through
// NewContactFields so that no unvalidated values travel past the boundary.
type ContactFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   int    `json:"age"`
}

// ValidationError reports a single rejected field. It never reaches the
// backend; callers map it to an inline form error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything that is not a digit.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// NewContactFields validates and normalizes raw contact input. The phone is
// stored as a raw digit string with 10 or 11 digits, age must fall in
// [0, 150], and the email must have a local@domain.tld shape.
func NewContactFields(name, email, phone string, age int) (ContactFields, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return ContactFields{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if email == "" {
		return ContactFields{}, &ValidationError{Field: "email", Reason: "required"}
	}
	if !emailPattern.MatchString(email) {
		return ContactFields{}, &ValidationError{Field: "email", Reason: "malformed address"}
	}
	if strings.TrimSpace(phone) == "" {
		return ContactFields{}, &ValidationError{Field: "phone", Reason: "required"}
	}
	digits := NormalizePhone(phone)
	if len(digits) != 10 && len(digits) != 11 {
		return ContactFields{}, &ValidationError{Field: "phone", Reason: "must contain 10 or 11 digits"}
	}
	if age < 0 || age > 150 {
		return ContactFields{}, &ValidationError{Field: "age", Reason: "must be between 0 and 150"}
	}

	return ContactFields{
		Name:  name,
		Email: email,
		Phone: digits,
		Age:   age,
	}, nil
}

// Apply copies the mutable fields onto an existing contact.
func (f ContactFields) Apply(c *Contact) {
	c.Name = f.Name
	c.Email = f.Email
	c.Phone = f.Phone
	c.Age = f.Age
}
