package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name       string  `json:"name"`
	LoanAmount float64 `json:"loanAmount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Wrapped body",
			key:      "borrower",
			body:     `{"borrower": {"name": "Ana", "loanAmount": 1000}}`,
			expected: bindTarget{Name: "Ana", LoanAmount: 1000},
		},
		{
			name:     "Flat body",
			key:      "borrower",
			body:     `{"name": "Bruno", "loanAmount": 2500}`,
			expected: bindTarget{Name: "Bruno", LoanAmount: 2500},
		},
		{
			name:     "Missing key falls back to flat",
			key:      "borrower",
			body:     `{"other": "value", "name": "Carla", "loanAmount": 10}`,
			expected: bindTarget{Name: "Carla", LoanAmount: 10},
		},
		{
			name:        "Wrapped but invalid content",
			key:         "borrower",
			body:        `{"borrower": {"name": "Dora", "loanAmount": "invalid"}}`,
			expectError: true,
		},
		{
			name:        "Wrapped key with wrong type",
			key:         "borrower",
			body:        `{"borrower": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest("POST", "/borrowers", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := BindNestedOrFlat(c, tt.key, &target)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}
