package utils

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
	"go.uber.org/zap"

	"friendgraph-api/apperror"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.InvalidRequest("bad"), http.StatusBadRequest},
		{apperror.NotFound("missing"), http.StatusNotFound},
		{apperror.Conflict("dup"), http.StatusConflict},
		{apperror.Forbidden("no"), http.StatusForbidden},
		{apperror.InvalidState("done"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", apperror.NotFound("missing")), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusFor(tc.err), tc.err.Error())
	}
}

func TestSendAppErrorHidesInternalMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SendAppError(c, zap.NewNop(), errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "Internal", body.Error.Kind)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestSendAppErrorUsesDomainMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SendAppError(c, zap.NewNop(), apperror.Conflict("friend request already exists"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok":false,"message":"friend request already exists","error":{"kind":"Conflict","message":"friend request already exists"}}`, w.Body.String())
}
