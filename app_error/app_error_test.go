package app_error

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body["error"]
}

func TestRespondMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("invalid note value"), http.StatusBadRequest},
		{Conflict("gala locked"), http.StatusConflict},
		{NotFound("gala not found"), http.StatusNotFound},
		{Forbidden("admin role required"), http.StatusForbidden},
	}
	for _, tc := range cases {
		status, message := respond(t, tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.err.Error(), message)
	}
}

func TestRespondHidesUnexpectedErrors(t *testing.T) {
	status, message := respond(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", message)
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", Conflict("already submitted"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindValidation))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))

	status, message := respond(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already submitted", message)
}
