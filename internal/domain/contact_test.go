package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactFields(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		inEmail   string
		inPhone   string
		inAge     int
		wantField string
		want      ContactFields
	}{
		{
			name:    "valid contact",
			inName:  "Ana Souza",
			inEmail: "ana@example.com",
			inPhone: "11987654321",
			inAge:   29,
			want:    ContactFields{Name: "Ana Souza", Email: "ana@example.com", Phone: "11987654321", Age: 29},
		},
		{
			name:    "formatted phone is normalized",
			inName:  "Bruno Lima",
			inEmail: "bruno@example.com",
			inPhone: "(21) 91234-5678",
			inAge:   34,
			want:    ContactFields{Name: "Bruno Lima", Email: "bruno@example.com", Phone: "21912345678", Age: 34},
		},
		{
			name:    "landline with 10 digits",
			inName:  "Carla Mendes",
			inEmail: "carla@example.com",
			inPhone: "3133334444",
			inAge:   41,
			want:    ContactFields{Name: "Carla Mendes", Email: "carla@example.com", Phone: "3133334444", Age: 41},
		},
		{
			name:    "surrounding whitespace is trimmed",
			inName:  "  Diego  ",
			inEmail: " diego@example.com ",
			inPhone: "11987654321",
			inAge:   25,
			want:    ContactFields{Name: "Diego", Email: "diego@example.com", Phone: "11987654321", Age: 25},
		},
		{
			name:      "empty name",
			inName:    "   ",
			inEmail:   "x@example.com",
			inPhone:   "11987654321",
			inAge:     30,
			wantField: "name",
		},
		{
			name:      "empty email",
			inName:    "X",
			inEmail:   "",
			inPhone:   "11987654321",
			inAge:     30,
			wantField: "email",
		},
		{
			name:      "email without domain dot",
			inName:    "X",
			inEmail:   "x@example",
			inPhone:   "11987654321",
			inAge:     30,
			wantField: "email",
		},
		{
			name:      "email with spaces",
			inName:    "X",
			inEmail:   "x y@example.com",
			inPhone:   "11987654321",
			inAge:     30,
			wantField: "email",
		},
		{
			name:      "phone too short",
			inName:    "X",
			inEmail:   "x@example.com",
			inPhone:   "123456789",
			inAge:     30,
			wantField: "phone",
		},
		{
			name:      "phone too long",
			inName:    "X",
			inEmail:   "x@example.com",
			inPhone:   "119876543210",
			inAge:     30,
			wantField: "phone",
		},
		{
			name:      "empty phone",
			inName:    "X",
			inEmail:   "x@example.com",
			inPhone:   "",
			inAge:     30,
			wantField: "phone",
		},
		{
			name:    "age at lower bound",
			inName:  "X",
			inEmail: "x@example.com",
			inPhone: "11987654321",
			inAge:   0,
			want:    ContactFields{Name: "X", Email: "x@example.com", Phone: "11987654321", Age: 0},
		},
		{
			name:    "age at upper bound",
			inName:  "X",
			inEmail: "x@example.com",
			inPhone: "11987654321",
			inAge:   150,
			want:    ContactFields{Name: "X", Email: "x@example.com", Phone: "11987654321", Age: 150},
		},
		{
			name:      "negative age",
			inName:    "X",
			inEmail:   "x@example.com",
			inPhone:   "11987654321",
			inAge:     -1,
			wantField: "age",
		},
		{
			name:      "age above upper bound",
			inName:    "X",
			inEmail:   "x@example.com",
			inPhone:   "11987654321",
			inAge:     151,
			wantField: "age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := NewContactFields(tt.inName, tt.inEmail, tt.inPhone, tt.inAge)

			if tt.wantField != "" {
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr), "expected a validation error, got %v", err)
				assert.Equal(t, tt.wantField, validationErr.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11987654321", "11987654321"},
		{"(11) 98765-4321", "11987654321"},
		{"+55 11 98765-4321", "5511987654321"},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestContactFieldsApply(t *testing.T) {
	fields := ContactFields{Name: "New Name", Email: "new@example.com", Phone: "11900001111", Age: 50}

	var contact Contact
	fields.Apply(&contact)

	assert.Equal(t, "New Name", contact.Name)
	assert.Equal(t, "new@example.com", contact.Email)
	assert.Equal(t, "11900001111", contact.Phone)
	assert.Equal(t, 50, contact.Age)
}
