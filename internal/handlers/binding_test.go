package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		wantName    string
		wantLiters  string
		expectError bool
	}{
		{"nested", `{"customer": {"name": "Ramesh", "daily_liters": "2"}}`, "Ramesh", "2", false},
		{"flat", `{"name": "Sunita", "daily_liters": 1.5}`, "Sunita", "1.5", false},
		{"flat with other keys", `{"other": "x", "name": "Gopal", "daily_liters": "3"}`, "Gopal", "3", false},
		{"bad decimal", `{"name": "Eve", "daily_liters": "lots"}`, "", "", true},
		{"nested wrong type", `{"customer": "Ramesh"}`, "", "", true},
		{"empty body", ``, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var in services.CustomerInput
			err := BindNestedOrFlat(c, "customer", &in)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, in.Name)
			assert.Equal(t, tt.wantName, *in.Name)
			assert.True(t, in.DailyLiters.Equal(decimal.RequireFromString(tt.wantLiters)))
		})
	}
}
