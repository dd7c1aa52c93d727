package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name string `json:"name" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	var payload samplePayload
	require.NoError(t, DecodeJSON(req, &payload))
	assert.Equal(t, "x", payload.Name)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","admin":true}`))
	var payload samplePayload
	assert.Error(t, DecodeJSON(req, &payload))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidateRequest(samplePayload{}))
	assert.NoError(t, ValidateRequest(samplePayload{Name: "x"}))
}
