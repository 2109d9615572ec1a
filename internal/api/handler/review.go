package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reviewJSON flattens a review into the client shape: the author appears only
// as userId/userName/userAvatar, tags as plain names, replies oldest-first.
func reviewJSON(r *models.Review, likes int64, liked bool) gin.H {
	userName, userAvatar := "", ""
	if r.Author != nil {
		userName = r.Author.Nickname
		userAvatar = r.Author.AvatarURL
	}
	images := []string(r.Images)
	if images == nil {
		images = []string{}
	}
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Name)
	}
	replies := make([]gin.H, 0, len(r.Replies))
	for i := range r.Replies {
		replies = append(replies, replyJSON(&r.Replies[i]))
	}
	return gin.H{
		"id":         r.ID,
		"userId":     r.UserID,
		"userName":   userName,
		"userAvatar": userAvatar,
		"locationId": r.LocationID,
		"rating":     r.Rating,
		"comment":    r.Comment,
		"images":     images,
		"status":     r.Status,
		"createdAt":  r.CreatedAt,
		"updatedAt":  r.UpdatedAt,
		"likes":      likes,
		"liked":      liked,
		"tags":       tags,
		"replyCount": len(r.Replies),
		"replies":    replies,
	}
}

func replyJSON(reply *models.ReviewReply) gin.H {
	userName, userAvatar := "", ""
	if reply.Author != nil {
		userName = reply.Author.Nickname
		userAvatar = reply.Author.AvatarURL
	}
	return gin.H{
		"id":         reply.ID,
		"userId":     reply.UserID,
		"userName":   userName,
		"userAvatar": userAvatar,
		"content":    reply.Content,
		"createdAt":  reply.CreatedAt,
	}
}

// ListLocationReviews returns a location's reviews with like counts and,
// for an authenticated caller, their own liked flag.
func (h *Handler) ListLocationReviews(c *gin.Context) {
	locationID, err := strconv.ParseUint(c.Query("locationId"), 10, 32)
	if err != nil || locationID == 0 {
		respondMessage(c, http.StatusBadRequest, "locationId is required.")
		return
	}
	page, pageSize := pageParams(c)

	reviews, total, err := h.Store.ListLocationReviews(uint(locationID), c.Query("tag"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	items := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		likes, err := h.Store.CountReviewLikes(r.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		liked := false
		if user != nil {
			if _, err := h.Store.GetReviewLike(user.ID, r.ID); err == nil {
				liked = true
			}
		}
		items = append(items, reviewJSON(r, likes, liked))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
		"pages":    (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CreateReview submits a pending review with optional images and tags.
// Multipart form: rating, comment, locationId, tags (repeated), images.
func (h *Handler) CreateReview(c *gin.Context) {
	user := auth.CurrentUser(c)

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < 1 || rating > 5 {
		respondMessage(c, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}
	comment := c.PostForm("comment")
	if comment == "" {
		respondMessage(c, http.StatusBadRequest, "Comment is required.")
		return
	}
	locationID, err := strconv.ParseUint(c.PostForm("locationId"), 10, 32)
	if err != nil || locationID == 0 {
		respondMessage(c, http.StatusBadRequest, "locationId is required.")
		return
	}
	tagNames := c.PostFormArray("tags")
	for _, name := range tagNames {
		if utf8.RuneCountInString(name) > config.TagNameMaxLen {
			respondMessage(c, http.StatusBadRequest,
				fmt.Sprintf("Tag names are limited to %d characters.", config.TagNameMaxLen))
			return
		}
	}

	var images []string
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["images"] {
			url, status, err := h.saveUpload(c, file, "reviews", config.ReviewImageMaxSize)
			if err != nil {
				respondMessage(c, status, err.Error())
				return
			}
			images = append(images, url)
		}
	}

	review := models.Review{
		Rating:     rating,
		Comment:    comment,
		Images:     images,
		UserID:     user.ID,
		LocationID: uint(locationID),
	}
	err = h.Store.WithTx(func(tx storage.Storage) error {
		if _, err := tx.GetLocationByID(uint(locationID)); err != nil {
			return err
		}
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			tag, err := tx.GetOrCreateTag(name)
			if err != nil {
				return err
			}
			tags = append(tags, *tag)
		}
		review.Tags = tags
		return tx.CreateReview(&review)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionSubmitReview, fmt.Sprintf("review %d on location %d", review.ID, locationID))
	review.Author = user
	c.JSON(http.StatusCreated, gin.H{"review": reviewJSON(&review, 0, false), "message": "Review submitted for moderation."})
}

// ToggleLike likes or unlikes a review, returning the resulting state and
// count. The like notification shares the toggle's transaction.
func (h *Handler) ToggleLike(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var liked bool
	var likes int64
	err := h.Store.WithTx(func(tx storage.Storage) error {
		review, err := tx.GetReviewByID(id)
		if err != nil {
			return err
		}

		_, err = tx.GetReviewLike(user.ID, id)
		switch {
		case err == nil:
			if err := tx.DeleteReviewLike(&models.ReviewLike{UserID: user.ID, ReviewID: id}); err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.CreateReviewLike(&models.ReviewLike{UserID: user.ID, ReviewID: id}); err != nil {
				return err
			}
			if err := h.Notify.EmitLike(tx, review, user.ID, user.Nickname); err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		likes, err = tx.CountReviewLikes(id)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionToggleLike, fmt.Sprintf("review %d liked=%t", id, liked))
	c.JSON(http.StatusOK, gin.H{"success": true, "liked": liked, "likes": likes})
}

type replyRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateReply adds a reply under a review and notifies its author.
func (h *Handler) CreateReply(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Content is required.")
		return
	}
	if utf8.RuneCountInString(req.Content) > config.ReplyMaxLen {
		respondMessage(c, http.StatusBadRequest,
			fmt.Sprintf("Replies are limited to %d characters.", config.ReplyMaxLen))
		return
	}

	reply := models.ReviewReply{Content: req.Content, ReviewID: id, UserID: user.ID}
	err := h.Store.WithTx(func(tx storage.Storage) error {
		review, err := tx.GetReviewByID(id)
		if err != nil {
			return err
		}
		if err := tx.CreateReply(&reply); err != nil {
			return err
		}
		return h.Notify.EmitReply(tx, review, &reply, user.Nickname)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionAddReply, fmt.Sprintf("reply %d on review %d", reply.ID, id))
	reply.Author = user
	c.JSON(http.StatusCreated, gin.H{"reply": replyJSON(&reply)})
}

type reportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportReview files a report against a review. One report per reporter per
// review; reporting your own review is forbidden.
func (h *Handler) ReportReview(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reason, ok := h.bindReportReason(c)
	if !ok {
		return
	}

	err := h.Store.WithTx(func(tx storage.Storage) error {
		review, err := tx.GetReviewByID(id)
		if err != nil {
			return err
		}
		if review.UserID == user.ID {
			return errSelfReport
		}
		report := models.ReviewReport{ReviewID: id, ReporterID: user.ID, Reason: reason}
		if err := tx.CreateReviewReport(&report); err != nil {
			return err
		}
		return h.Notify.EmitReport(tx, review)
	})
	switch {
	case errors.Is(err, errSelfReport):
		respondMessage(c, http.StatusForbidden, "You cannot report your own review.")
		return
	case isDuplicate(err):
		respondMessage(c, http.StatusConflict, "You have already reported this review.")
		return
	case err != nil:
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionReportReview, fmt.Sprintf("review %d", id))
	respondMessage(c, http.StatusCreated, "Report submitted.")
}

// ReportReply files a report against a reply.
func (h *Handler) ReportReply(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reason, ok := h.bindReportReason(c)
	if !ok {
		return
	}

	reply, err := h.Store.GetReplyByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if reply.UserID == user.ID {
		respondMessage(c, http.StatusForbidden, "You cannot report your own reply.")
		return
	}

	report := models.ReviewReplyReport{ReplyID: id, ReporterID: user.ID, Reason: reason}
	if err := h.Store.CreateReplyReport(&report); err != nil {
		if isDuplicate(err) {
			respondMessage(c, http.StatusConflict, "You have already reported this reply.")
			return
		}
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionReportReply, fmt.Sprintf("reply %d", id))
	respondMessage(c, http.StatusCreated, "Report submitted.")
}

var errSelfReport = errors.New("self report")

func (h *Handler) bindReportReason(c *gin.Context) (string, bool) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Reason is required.")
		return "", false
	}
	if utf8.RuneCountInString(req.Reason) > config.ReportReasonMaxLen {
		respondMessage(c, http.StatusBadRequest,
			fmt.Sprintf("Reasons are limited to %d characters.", config.ReportReasonMaxLen))
		return "", false
	}
	return req.Reason, true
}
