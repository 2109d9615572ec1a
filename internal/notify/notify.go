// Package notify creates in-app notification messages for reply, like and
// report events. Emission shares the caller's transaction, so a rolled back
// action never leaves an orphaned notification.
package notify

import (
	"fmt"

	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
)

// Store is the slice of persistence the emitter needs.
type Store interface {
	CreateMessage(msg *models.Message) error
}

// Emitter builds and stores notification messages.
type Emitter struct{}

// EmitReply notifies the review author about a new reply. Replying to your
// own review emits nothing.
func (Emitter) EmitReply(store Store, review *models.Review, reply *models.ReviewReply, replierName string) error {
	if review.UserID == reply.UserID {
		return nil
	}
	snapshot := Snapshot(reply.Content)
	msg := &models.Message{
		Type:            models.MessageReply,
		Content:         fmt.Sprintf("%s 回复了你的点评：%s", displayName(replierName), snapshot),
		Link:            reviewLink(review),
		UserID:          review.UserID,
		RelatedReviewID: &review.ID,
		RelatedComment:  &snapshot,
	}
	return store.CreateMessage(msg)
}

// EmitLike notifies the review author about a new like. Self-likes emit
// nothing.
func (Emitter) EmitLike(store Store, review *models.Review, likerID uint, likerName string) error {
	if review.UserID == likerID {
		return nil
	}
	snapshot := Snapshot(review.Comment)
	msg := &models.Message{
		Type:            models.MessageLike,
		Content:         fmt.Sprintf("%s 赞了你的点评：%s", displayName(likerName), snapshot),
		Link:            reviewLink(review),
		UserID:          review.UserID,
		RelatedReviewID: &review.ID,
		RelatedComment:  &snapshot,
	}
	return store.CreateMessage(msg)
}

// EmitReport tells the review author their review was reported. The reporter
// stays anonymous.
func (Emitter) EmitReport(store Store, review *models.Review) error {
	snapshot := Snapshot(review.Comment)
	msg := &models.Message{
		Type:            models.MessageReport,
		Content:         fmt.Sprintf("你的点评被举报，正在审核中：%s", snapshot),
		Link:            reviewLink(review),
		UserID:          review.UserID,
		RelatedReviewID: &review.ID,
		RelatedComment:  &snapshot,
	}
	return store.CreateMessage(msg)
}

// Snapshot truncates content to the notification snapshot length, counted
// in runes so multi-byte text is never split mid-character.
func Snapshot(content string) string {
	runes := []rune(content)
	if len(runes) <= config.SnapshotMaxLen {
		return content
	}
	return string(runes[:config.SnapshotMaxLen])
}

func reviewLink(review *models.Review) string {
	return fmt.Sprintf("/locations/%d?reviewId=%d", review.LocationID, review.ID)
}

func displayName(name string) string {
	if name == "" {
		return "有人"
	}
	return name
}
