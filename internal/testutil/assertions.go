package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertContactNames verifies contact names appear in the given order
func AssertContactNames(t *testing.T, contacts []domain.Contact, names ...string) {
	t.Helper()

	require.Len(t, contacts, len(names), "unexpected contact count")
	for i, name := range names {
		assert.Equal(t, name, contacts[i].Name, "contact %d out of order", i)
	}
}

// AssertSortedByCreatedAtDesc verifies newest-first ordering
func AssertSortedByCreatedAtDesc(t *testing.T, contacts []domain.Contact) {
	t.Helper()

	for i := 1; i < len(contacts); i++ {
		assert.False(t, contacts[i-1].CreatedAt.Before(contacts[i].CreatedAt),
			"contact %d is newer than contact %d", i, i-1)
	}
}
