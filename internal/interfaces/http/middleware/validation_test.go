package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Description string `json:"description" validate:"required"`
}

type sampleRequest struct {
	Type     string       `json:"type" validate:"required,account_type"`
	Workflow string       `json:"workflow_type" validate:"omitempty,workflow_type"`
	Email    string       `json:"email" validate:"omitempty,email"`
	Items    []sampleItem `json:"items" validate:"dive"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterValidations(v))
	return v
}

func TestRegisterValidations(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sampleRequest{Type: "asset", Workflow: "fast-track"}))
	assert.NoError(t, v.Struct(sampleRequest{Type: "expense", Workflow: "standard"}))
	assert.Error(t, v.Struct(sampleRequest{Type: "cash"}))
	assert.Error(t, v.Struct(sampleRequest{Type: "asset", Workflow: "express"}))
}

func TestValidationDetails(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sampleRequest{
		Type:  "cash",
		Email: "nope",
		Items: []sampleItem{{Description: "ok"}, {}},
	})
	details := ValidationDetails(err)

	require.Len(t, details, 3)
	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Contains(t, byField["type"], "asset liability equity revenue expense")
	assert.Equal(t, "Invalid email format", byField["email"])
	assert.Equal(t, "This field is required", byField["items[1].description"])
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
