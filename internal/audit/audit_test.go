package audit_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"jitutong/backend/internal/audit"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) CreateUserLog(l *models.UserLog) error {
	args := m.Called(l)
	return args.Error(0)
}

func testContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/reviews", nil)
	c.Request.Header.Set("User-Agent", "test-agent/1.0")
	return c
}

func TestLogRecordsRequestMetadata(t *testing.T) {
	store := new(MockLogStore)
	var captured *models.UserLog
	store.On("CreateUserLog", mock.AnythingOfType("*models.UserLog")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(*models.UserLog) }).
		Return(nil).Once()

	audit.NewLogger(store).Log(testContext(), 12, models.ActionSubmitReview, "review 4")

	store.AssertExpectations(t)
	require.NotNil(t, captured)
	assert.Equal(t, uint(12), captured.UserID)
	assert.Equal(t, models.ActionSubmitReview, captured.Action)
	assert.Equal(t, "review 4", captured.Detail)
	assert.Equal(t, "test-agent/1.0", captured.UserAgent)
}

// Audit is best-effort: a failing write must never panic or propagate.
func TestLogSwallowsStoreFailure(t *testing.T) {
	store := new(MockLogStore)
	store.On("CreateUserLog", mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		audit.NewLogger(store).Log(testContext(), 12, models.ActionLogin, "")
	})
	store.AssertExpectations(t)
}
