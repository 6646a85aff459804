package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/syncclient"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type contactBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   int    `json:"age"`
}

// Register creates a new user account
func (c *APIClient) Register(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.post("/auth/register", body, "")
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Login authenticates an existing account
func (c *APIClient) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.post("/auth/login", body, "")
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Logout revokes the server-side session
func (c *APIClient) Logout(token string) error {
	resp, err := c.post("/auth/logout", nil, token)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return nil
}

// CreateContact writes one new contact and returns it
func (c *APIClient) CreateContact(token string, fields domain.ContactFields) (*domain.Contact, error) {
	resp, err := c.post("/contacts", contactBody(fields), token)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var contact domain.Contact
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &contact, nil
}

// UpdateContact replaces a contact's mutable fields
func (c *APIClient) UpdateContact(token, contactID string, fields domain.ContactFields) error {
	resp, err := c.put("/contacts/"+contactID, contactBody(fields), token)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return nil
}

// DeleteContact removes a contact
func (c *APIClient) DeleteContact(token, contactID string) error {
	resp, err := c.delete("/contacts/"+contactID, token)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return nil
}

// ListContacts fetches the owner's full contact set once
func (c *APIClient) ListContacts(token string) ([]domain.Contact, error) {
	resp, err := c.get("/contacts", token)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var contacts []domain.Contact
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return contacts, nil
}

// Error mapping

func statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	message := string(bytes.TrimSpace(bodyBytes))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	code := syncclient.CodeUnavailable
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = syncclient.CodeUnauthenticated
	case http.StatusForbidden:
		code = syncclient.CodePermissionDenied
	case http.StatusNotFound:
		code = syncclient.CodeNotFound
	}

	return &syncclient.BackendError{Code: code, Message: message}
}

func transportError(err error) error {
	return &syncclient.BackendError{Code: syncclient.CodeUnavailable, Message: err.Error()}
}

// HTTP helpers

func (c *APIClient) get(path, token string) (*http.Response, error) {
	return c.do("GET", path, nil, token)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	return c.do("POST", path, body, token)
}

func (c *APIClient) put(path string, body interface{}, token string) (*http.Response, error) {
	return c.do("PUT", path, body, token)
}

func (c *APIClient) delete(path, token string) (*http.Response, error) {
	return c.do("DELETE", path, nil, token)
}

func (c *APIClient) do(method, path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
