package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	Name string `json:"item_name" binding:"required,max=5"`
}

type drawerRequest struct {
	Pin   int           `json:"pin" binding:"omitempty,oneof=2 5"`
	Lines []lineRequest `json:"lines" binding:"dive"`
}

func bindErr(t *testing.T, body string) error {
	t.Helper()
	SetupValidator()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/drawer", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req drawerRequest
	return c.ShouldBindJSON(&req)
}

func TestValidationDetails(t *testing.T) {
	err := bindErr(t, `{"pin":3,"lines":[{"item_name":"Espresso"},{}]}`)
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 3)
	assert.Equal(t, "pin", details[0].Field)
	assert.Equal(t, "Must be one of: 2 5", details[0].Message)
	assert.Equal(t, "lines[0].item_name", details[1].Field)
	assert.Equal(t, "Must be at most 5 characters", details[1].Message)
	assert.Equal(t, "lines[1].item_name", details[2].Field)
	assert.Equal(t, "This field is required", details[2].Message)
}

func TestValidationDetails_NotValidation(t *testing.T) {
	err := bindErr(t, `{"pin":`)
	require.Error(t, err)
	assert.Nil(t, ValidationDetails(err))
}
