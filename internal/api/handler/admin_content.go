package handler

import (
	"errors"
	"net/http"

	"jitutong/backend/internal/models"
	"jitutong/backend/internal/moderation"

	"github.com/gin-gonic/gin"
)

func contentKind(c *gin.Context) (moderation.ContentKind, bool) {
	kind, err := moderation.ParseContentKind(c.Query("type"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "type must be review or suggestion.")
		return 0, false
	}
	return kind, true
}

// AdminListContent lists pending/approved content of either kind for the
// moderation queue.
func (h *Handler) AdminListContent(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	if kind == moderation.KindReview {
		reviews, total, err := h.Store.ListReviewsForModeration(status, keyword, page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": reviews, "total": total, "page": page})
		return
	}

	suggestions, total, err := h.Store.ListSuggestions(status, keyword, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": suggestions, "total": total, "page": page})
}

// AdminContentDetail returns one moderatable item.
func (h *Handler) AdminContentDetail(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if kind == moderation.KindReview {
		review, err := h.Store.GetReviewByID(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": review})
		return
	}

	sg, err := h.Store.GetSuggestionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": sg})
}

type moderationNoteRequest struct {
	Note *string `json:"note"`
}

// AdminApproveContent approves a review or suggestion. Approving an approved
// item succeeds idempotently.
func (h *Handler) AdminApproveContent(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req moderationNoteRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Moderation.Approve(kind, id, req.Note); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content approved.", "id": id, "status": models.ModerationApproved})
}

// AdminRejectContent rejects content: reviews are deleted outright,
// suggestions survive in a rejected state.
func (h *Handler) AdminRejectContent(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req moderationNoteRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Moderation.Reject(kind, id, req.Note); err != nil {
		respondError(c, err)
		return
	}

	if kind == moderation.KindReview {
		c.JSON(http.StatusOK, gin.H{"message": "Review rejected and deleted."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Suggestion rejected.", "id": id, "status": models.ModerationRejected})
}

// AdminDeleteSuggestion removes a single suggestion row.
func (h *Handler) AdminDeleteSuggestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sg, err := h.Store.GetSuggestionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.DeleteSuggestion(sg); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Suggestion deleted.")
}

type batchRequest struct {
	Action string  `json:"action" binding:"required"`
	IDs    []uint  `json:"ids" binding:"required"`
	Note   *string `json:"note"`
}

// AdminBatchContent runs approve/reject/delete over a list of ids with
// per-id outcomes. Everything commits in one transaction; a failed commit
// fails the whole batch.
func (h *Handler) AdminBatchContent(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondMessage(c, http.StatusBadRequest, "action and a non-empty ids list are required.")
		return
	}

	result, err := h.Moderation.BatchProcess(kind, req.Action, req.IDs, req.Note)
	if err != nil {
		if errors.Is(err, moderation.ErrUnknownAction) {
			respondMessage(c, http.StatusBadRequest, "action must be approve, reject or delete.")
			return
		}
		respondMessage(c, http.StatusInternalServerError, "Batch failed; no changes were applied.")
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// AdminBatchDeleteContent deletes a list of ids with per-id accounting.
func (h *Handler) AdminBatchDeleteContent(c *gin.Context) {
	kind, ok := contentKind(c)
	if !ok {
		return
	}
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondMessage(c, http.StatusBadRequest, "A non-empty ids list is required.")
		return
	}

	result, err := h.Moderation.BatchProcess(kind, moderation.BatchDelete, req.IDs, nil)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, "Batch failed; no changes were applied.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdminListReports lists review reports by status.
func (h *Handler) AdminListReports(c *gin.Context) {
	page, pageSize := pageParams(c)
	reports, total, err := h.Store.ListReviewReports(c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": total, "page": page})
}

// AdminReportDetail returns one report with its review and reporter.
func (h *Handler) AdminReportDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := h.Store.GetReviewReportByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

type resolveReportRequest struct {
	Action string  `json:"action"`
	Note   *string `json:"note"`
}

// AdminResolveReport closes a report with one of resolve / reject_review /
// ban_review.
func (h *Handler) AdminResolveReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req resolveReportRequest
	_ = c.ShouldBindJSON(&req)

	status, err := h.Moderation.ResolveReport(id, req.Action, req.Note)
	if err != nil {
		if errors.Is(err, moderation.ErrUnknownAction) {
			respondMessage(c, http.StatusBadRequest, "action must be resolve, reject_review or ban_review.")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report resolved.", "id": id, "status": status})
}

// AdminDismissReport closes a report without touching the content.
func (h *Handler) AdminDismissReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req moderationNoteRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Moderation.DismissReport(id, req.Note); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report dismissed.", "id": id, "status": models.ReportDismissed})
}
