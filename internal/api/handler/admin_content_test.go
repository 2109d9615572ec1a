package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"jitutong/backend/internal/models"
	"jitutong/backend/internal/moderation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func consoleAdmin() *models.Admin {
	return &models.Admin{ID: 1, Username: "ops", Role: models.AdminRoleAdmin}
}

// Approving a location suggestion publishes its content onto the location.
func TestApproveSuggestionAppliesContent(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	locID := uint(3)
	sg := &models.WikiSuggestion{ID: 5, Content: "全新的图书馆介绍", LocationID: &locID, Status: models.ModerationPending}
	loc := &models.Location{ID: 3, Name: "图书馆", RichContent: "旧内容"}

	fx.store.On("GetSuggestionByID", uint(5)).Return(sg, nil).Once()
	fx.store.On("SaveSuggestion", sg).Return(nil).Once()
	fx.store.On("GetLocationByID", locID).Return(loc, nil).Once()
	fx.store.On("SaveLocation", loc).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/5/approve?type=suggestion", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.ModerationApproved, sg.Status)
	assert.Equal(t, "全新的图书馆介绍", loc.RichContent)
	fx.store.AssertExpectations(t)
}

// Re-approving an approved item succeeds idempotently.
func TestApproveReviewIdempotent(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())
	review := &models.Review{ID: 7, Status: models.ModerationApproved}

	fx.store.On("GetReviewByID", uint(7)).Return(review, nil).Once()
	fx.store.On("SaveReview", review).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/7/approve?type=review", token, gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ModerationApproved, review.Status)
}

// Rejecting a review deletes the row outright.
func TestRejectReviewDeletes(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())
	review := &models.Review{ID: 7, Status: models.ModerationPending}

	fx.store.On("GetReviewByID", uint(7)).Return(review, nil).Once()
	fx.store.On("DeleteReview", review).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/7/reject?type=review", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	fx.store.AssertExpectations(t)
	fx.store.AssertNotCalled(t, "SaveReview", mock.Anything)
}

// Rejecting a suggestion keeps the row in a terminal rejected state.
func TestRejectSuggestionKeepsRow(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())
	sg := &models.WikiSuggestion{ID: 9, Status: models.ModerationPending}

	fx.store.On("GetSuggestionByID", uint(9)).Return(sg, nil).Once()
	fx.store.On("SaveSuggestion", sg).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/9/reject?type=suggestion", token,
		gin.H{"note": "缺少依据"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.ModerationRejected, sg.Status)
	require.NotNil(t, sg.ReviewerNote)
	assert.Equal(t, "缺少依据", *sg.ReviewerNote)
	fx.store.AssertNotCalled(t, "DeleteSuggestion", mock.Anything)
}

// Batch approve over [1,2,999]: per-id outcomes, missing id is a structured
// failure, the others still succeed.
func TestBatchApprovePerIDOutcomes(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	sg1 := &models.WikiSuggestion{ID: 1, Status: models.ModerationPending}
	sg2 := &models.WikiSuggestion{ID: 2, Status: models.ModerationPending}
	fx.store.On("GetSuggestionByID", uint(1)).Return(sg1, nil).Once()
	fx.store.On("GetSuggestionByID", uint(2)).Return(sg2, nil).Once()
	fx.store.On("GetSuggestionByID", uint(999)).Return(nil, gorm.ErrRecordNotFound).Once()
	fx.store.On("SaveSuggestion", mock.AnythingOfType("*models.WikiSuggestion")).Return(nil).Twice()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/batch?type=suggestion", token,
		gin.H{"action": "approve", "ids": []uint{1, 2, 999}})
	require.Equal(t, http.StatusOK, w.Code)

	var result moderation.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 3)
	assert.True(t, result.Outcomes[0].Success)
	assert.True(t, result.Outcomes[1].Success)
	assert.False(t, result.Outcomes[2].Success)
	assert.Equal(t, uint(999), result.Outcomes[2].ID)
	assert.Equal(t, "not found", result.Outcomes[2].Reason)
}

// When the final commit fails, the whole batch is reported as failed even
// though individual items were processed.
func TestBatchCommitFailureFailsWholeBatch(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())
	fx.store.TxErr = errors.New("commit failed")

	sg := &models.WikiSuggestion{ID: 1, Status: models.ModerationPending}
	fx.store.On("GetSuggestionByID", uint(1)).Return(sg, nil).Once()
	fx.store.On("SaveSuggestion", mock.Anything).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/reviews/batch?type=suggestion", token,
		gin.H{"action": "approve", "ids": []uint{1}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ban_review bans the author indefinitely, deletes the review and resolves
// the report.
func TestResolveReportBanReview(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	author := &models.User{ID: 20, Status: models.StatusActive}
	review := &models.Review{ID: 4, UserID: 20}
	report := &models.ReviewReport{ID: 11, ReviewID: 4, ReporterID: 10, Status: models.ReportPending, Review: review}

	fx.store.On("GetReviewReportByID", uint(11)).Return(report, nil).Once()
	fx.store.On("SaveReviewReport", report).Return(nil).Once()
	fx.store.On("GetUserByID", uint(20)).Return(author, nil).Once()
	fx.store.On("SaveUser", author).Return(nil).Once()
	fx.store.On("DeleteReview", review).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/review-reports/11/resolve", token,
		gin.H{"action": "ban_review"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.ReportResolved, report.Status)
	assert.Equal(t, models.StatusBanned, author.Status)
	assert.Nil(t, author.BanUntil)
	fx.store.AssertExpectations(t)
}

// The default resolve action leaves the content untouched.
func TestResolveReportDefaultKeepsContent(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	review := &models.Review{ID: 4, UserID: 20}
	report := &models.ReviewReport{ID: 12, ReviewID: 4, ReporterID: 10, Status: models.ReportPending, Review: review}

	fx.store.On("GetReviewReportByID", uint(12)).Return(report, nil).Once()
	fx.store.On("SaveReviewReport", report).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/review-reports/12/resolve", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.ReportResolved, report.Status)
	fx.store.AssertNotCalled(t, "DeleteReview", mock.Anything)
	fx.store.AssertNotCalled(t, "SaveUser", mock.Anything)
}

func TestDismissReport(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())
	report := &models.ReviewReport{ID: 13, Status: models.ReportPending}

	fx.store.On("GetReviewReportByID", uint(13)).Return(report, nil).Once()
	fx.store.On("SaveReviewReport", report).Return(nil).Once()

	w := fx.do(http.MethodPost, "/api/admin/content/review-reports/13/dismiss", token,
		gin.H{"note": "重复举报"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportDismissed, report.Status)
}

// Promoting to an elevated role creates exactly one Admin mirror row with
// the same credential hash; promoting again updates instead of duplicating;
// demoting deletes the mirror.
func TestPermissionMirrorLifecycle(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	user := &models.User{ID: 30, Phone: "13900001111", PasswordHash: "$2a$10$hash", Role: models.RoleUser, Status: models.StatusActive}
	fx.store.On("GetUserByID", uint(30)).Return(user, nil)
	fx.store.On("SaveUser", user).Return(nil)

	// First promotion: no mirror row yet.
	fx.store.On("GetAdminByUsername", "13900001111").Return(nil, gorm.ErrRecordNotFound).Once()
	var mirror *models.Admin
	fx.store.On("CreateAdmin", mock.AnythingOfType("*models.Admin")).
		Run(func(args mock.Arguments) { mirror = args.Get(0).(*models.Admin) }).
		Return(nil).Once()

	w := fx.do(http.MethodPut, "/api/admin/account/permission", token, gin.H{"id": 30, "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mirror)
	assert.Equal(t, "13900001111", mirror.Username)
	assert.Equal(t, user.PasswordHash, mirror.PasswordHash)
	assert.Equal(t, models.AdminRoleAdmin, mirror.Role)

	// Second promotion: the mirror exists and is updated, not duplicated.
	mirror.ID = 77
	fx.store.On("GetAdminByUsername", "13900001111").Return(mirror, nil).Once()
	fx.store.On("SaveAdmin", mirror).Return(nil).Once()

	w = fx.do(http.MethodPut, "/api/admin/account/permission", token, gin.H{"id": 30, "role": "wiki_admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AdminRoleWikiAdmin, mirror.Role)
	fx.store.AssertNumberOfCalls(t, "CreateAdmin", 1)

	// Demotion: the mirror row goes away.
	fx.store.On("GetAdminByUsername", "13900001111").Return(mirror, nil).Once()
	fx.store.On("DeleteAdmin", mirror).Return(nil).Once()

	w = fx.do(http.MethodPut, "/api/admin/account/permission", token, gin.H{"id": 30, "role": "user"})
	require.Equal(t, http.StatusOK, w.Code)
	fx.store.AssertExpectations(t)
}

func TestPermissionUserNotFound(t *testing.T) {
	fx := newFixture()
	token := fx.adminToken(consoleAdmin())

	fx.store.On("GetUserByID", uint(404)).Return(nil, gorm.ErrRecordNotFound).Once()

	w := fx.do(http.MethodPut, "/api/admin/account/permission", token, gin.H{"id": 404, "role": "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
