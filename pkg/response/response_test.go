package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(write func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	w := record(func(c *gin.Context) {
		Success(c, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Data)
}

func TestSuccessWithMeta(t *testing.T) {
	w := record(func(c *gin.Context) {
		SuccessWithMeta(c, []string{"a"}, gin.H{"total": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
}

func TestError(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, http.StatusConflict, "USER_EXISTS", "User already exists", "details here")
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "USER_EXISTS", resp.Error.Code)
	assert.Equal(t, "User already exists", resp.Error.Message)
	assert.Equal(t, "details here", resp.Error.Details)
}

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", func(c *gin.Context) { NotFound(c, "missing") }, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "who?") }, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "no") }, http.StatusForbidden, "AUTHORIZATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := record(tc.write)
			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}
