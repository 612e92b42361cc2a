package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratePayload struct {
	SubjectID string `json:"subject_id" binding:"required,objectid"`
	Grade     string `json:"grade" binding:"required,oneof=A B C D E Fx F"`
}

func newJSONContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindValid(t *testing.T) {
	Setup()

	var dst ratePayload
	fields := Bind(newJSONContext(t, `{"subject_id":"64a0b33cf2d74c0b5c000001","grade":"Fx"}`), &dst)

	assert.Nil(t, fields)
	assert.Equal(t, "Fx", dst.Grade)
}

func TestBindReportsFieldErrors(t *testing.T) {
	Setup()

	var dst ratePayload
	fields := Bind(newJSONContext(t, `{"subject_id":"64a0b33cf2d74c0b5c000001","grade":"Z"}`), &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "grade")
	assert.NotContains(t, fields, "subject_id")
}

func TestBindObjectIDRule(t *testing.T) {
	Setup()

	var dst ratePayload
	fields := Bind(newJSONContext(t, `{"subject_id":"not-an-id","grade":"A"}`), &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields["subject_id"], "valid document id")
}

func TestBindMalformedJSON(t *testing.T) {
	Setup()

	var dst ratePayload
	fields := Bind(newJSONContext(t, `{"subject_id":`), &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}
