package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:    userID,
		Email: authResp.User.Email,
	}

	return user, authResp.AccessToken
}

// ContactBuilder creates test contacts with a builder pattern
type ContactBuilder struct {
	owner     *domain.User
	name      string
	email     string
	phone     string
	age       int
	createdAt time.Time
}

// NewContactBuilder creates a new ContactBuilder with default values
func NewContactBuilder() *ContactBuilder {
	suffix := uuid.New().String()[:8]
	return &ContactBuilder{
		name:      fmt.Sprintf("Contact %s", suffix),
		email:     fmt.Sprintf("contact_%s@example.com", suffix),
		phone:     "11987654321",
		age:       30,
		createdAt: time.Now(),
	}
}

// WithOwner sets the owning user
func (b *ContactBuilder) WithOwner(user *domain.User) *ContactBuilder {
	b.owner = user
	return b
}

// WithName sets the contact name
func (b *ContactBuilder) WithName(name string) *ContactBuilder {
	b.name = name
	return b
}

// WithEmail sets the contact email
func (b *ContactBuilder) WithEmail(email string) *ContactBuilder {
	b.email = email
	return b
}

// WithPhone sets the contact phone
func (b *ContactBuilder) WithPhone(phone string) *ContactBuilder {
	b.phone = phone
	return b
}

// WithAge sets the contact age
func (b *ContactBuilder) WithAge(age int) *ContactBuilder {
	b.age = age
	return b
}

// WithCreatedAt sets the creation timestamp
func (b *ContactBuilder) WithCreatedAt(at time.Time) *ContactBuilder {
	b.createdAt = at
	return b
}

// Build creates the contact in the database
func (b *ContactBuilder) Build(t *testing.T, db *gorm.DB) *domain.Contact {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	contact := &domain.Contact{
		ID:        uuid.New(),
		OwnerID:   b.owner.ID,
		Name:      b.name,
		Email:     b.email,
		Phone:     b.phone,
		Age:       b.age,
		CreatedAt: b.createdAt,
		UpdatedAt: b.createdAt,
	}

	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	return contact
}

// SeedContacts creates N contacts for the owner with descending ages and
// staggered creation times (index 0 is oldest)
func SeedContacts(t *testing.T, db *gorm.DB, owner *domain.User, count int) []*domain.Contact {
	t.Helper()

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	contacts := make([]*domain.Contact, count)
	for i := 0; i < count; i++ {
		contacts[i] = NewContactBuilder().
			WithOwner(owner).
			WithName(fmt.Sprintf("Seed Contact %d", i)).
			WithCreatedAt(base.Add(time.Duration(i) * time.Minute)).
			Build(t, db)
	}
	return contacts
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
