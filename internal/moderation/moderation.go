// Package moderation drives the review/suggestion/report lifecycle:
// pending content is approved or rejected, reports are resolved or
// dismissed, and elevated user roles are mirrored into the admins table.
package moderation

import (
	"errors"
	"fmt"

	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"gorm.io/gorm"
)

// ContentKind tags which moderatable entity an operation targets.
type ContentKind int

const (
	KindReview ContentKind = iota
	KindSuggestion
)

// Batch actions accepted by BatchProcess.
const (
	BatchApprove = "approve"
	BatchReject  = "reject"
	BatchDelete  = "delete"
)

// Report resolution actions.
const (
	ReportResolve      = "resolve"
	ReportRejectReview = "reject_review"
	ReportBanReview    = "ban_review"
)

var (
	ErrUnknownKind   = errors.New("unknown content kind")
	ErrUnknownAction = errors.New("unknown action")
	ErrNotFound      = errors.New("not found")
)

// ParseContentKind maps the query-string type tag to a ContentKind.
// An empty tag defaults to review.
func ParseContentKind(s string) (ContentKind, error) {
	switch s {
	case "", "review":
		return KindReview, nil
	case "suggestion":
		return KindSuggestion, nil
	default:
		return 0, ErrUnknownKind
	}
}

// BatchOutcome is the per-id result inside a batch response.
type BatchOutcome struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// BatchResult aggregates a batch run.
type BatchResult struct {
	Succeeded int            `json:"successCount"`
	Failed    int            `json:"failCount"`
	Outcomes  []BatchOutcome `json:"details"`
}

// Service mutates moderatable content through a Storage handle. Every
// operation runs inside a single transaction so the caller sees either the
// whole transition or none of it.
type Service struct {
	Store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{Store: store}
}

// Approve marks the item approved. Re-approving an approved item is a no-op
// that still succeeds. Approving a location suggestion with content applies
// that content as the location's rich content, last approval wins.
func (s *Service) Approve(kind ContentKind, id uint, note *string) error {
	return s.Store.WithTx(func(tx storage.Storage) error {
		return approveOne(tx, kind, id, note)
	})
}

// Reject is terminal. A review is deleted outright, which cascades to its
// likes, replies and reports. A suggestion is kept in a rejected state.
func (s *Service) Reject(kind ContentKind, id uint, note *string) error {
	return s.Store.WithTx(func(tx storage.Storage) error {
		return rejectOne(tx, kind, id, note)
	})
}

func approveOne(tx storage.Storage, kind ContentKind, id uint, note *string) error {
	switch kind {
	case KindReview:
		review, err := tx.GetReviewByID(id)
		if err != nil {
			return wrapNotFound(err)
		}
		review.Status = models.ModerationApproved
		if note != nil {
			review.ReviewerNote = note
		}
		return tx.SaveReview(review)
	case KindSuggestion:
		sg, err := tx.GetSuggestionByID(id)
		if err != nil {
			return wrapNotFound(err)
		}
		sg.Status = models.ModerationApproved
		if note != nil {
			sg.ReviewerNote = note
		}
		if err := tx.SaveSuggestion(sg); err != nil {
			return err
		}
		return applySuggestion(tx, sg)
	default:
		return ErrUnknownKind
	}
}

func rejectOne(tx storage.Storage, kind ContentKind, id uint, note *string) error {
	switch kind {
	case KindReview:
		review, err := tx.GetReviewByID(id)
		if err != nil {
			return wrapNotFound(err)
		}
		return tx.DeleteReview(review)
	case KindSuggestion:
		sg, err := tx.GetSuggestionByID(id)
		if err != nil {
			return wrapNotFound(err)
		}
		sg.Status = models.ModerationRejected
		if note != nil {
			sg.ReviewerNote = note
		}
		return tx.SaveSuggestion(sg)
	default:
		return ErrUnknownKind
	}
}

// applySuggestion publishes an approved location suggestion's content onto
// the linked location.
func applySuggestion(tx storage.Storage, sg *models.WikiSuggestion) error {
	if sg.LocationID == nil || sg.Content == "" {
		return nil
	}
	loc, err := tx.GetLocationByID(*sg.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	loc.RichContent = sg.Content
	return tx.SaveLocation(loc)
}

// BatchProcess runs action over ids inside one transaction with per-id
// accounting: a missing or failing id produces a failure outcome and the
// loop moves on. Only the final commit decides whether the successes stick;
// if it fails, the caller must report the whole batch as failed.
func (s *Service) BatchProcess(kind ContentKind, action string, ids []uint, note *string) (*BatchResult, error) {
	if action != BatchApprove && action != BatchReject && action != BatchDelete {
		return nil, ErrUnknownAction
	}

	result := &BatchResult{Outcomes: make([]BatchOutcome, 0, len(ids))}
	err := s.Store.WithTx(func(tx storage.Storage) error {
		for _, id := range ids {
			var err error
			switch action {
			case BatchApprove:
				err = approveOne(tx, kind, id, note)
			case BatchReject, BatchDelete:
				err = rejectOne(tx, kind, id, note)
			}
			if err != nil {
				if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
					result.Failed++
					result.Outcomes = append(result.Outcomes, BatchOutcome{ID: id, Reason: "not found"})
					continue
				}
				// A real persistence error poisons the transaction;
				// abort and let the caller fail the whole batch.
				return fmt.Errorf("batch %s id %d: %w", action, id, err)
			}
			result.Succeeded++
			result.Outcomes = append(result.Outcomes, BatchOutcome{ID: id, Success: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResolveReport closes a review report. reject_review additionally deletes
// the reported review; ban_review bans its author indefinitely and deletes
// the review. The plain resolve action leaves the content untouched.
func (s *Service) ResolveReport(id uint, action string, note *string) (string, error) {
	if action == "" {
		action = ReportResolve
	}
	if action != ReportResolve && action != ReportRejectReview && action != ReportBanReview {
		return "", ErrUnknownAction
	}

	err := s.Store.WithTx(func(tx storage.Storage) error {
		report, err := tx.GetReviewReportByID(id)
		if err != nil {
			return wrapNotFound(err)
		}

		// Status first: deleting the review cascades onto this report row,
		// so the resolved write must precede the delete.
		report.Status = models.ReportResolved
		if note != nil {
			report.ReviewerNote = note
		}
		if err := tx.SaveReviewReport(report); err != nil {
			return err
		}

		if action == ReportBanReview && report.Review != nil {
			author, err := tx.GetUserByID(report.Review.UserID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if author != nil {
				reason := "Banned for a reported review"
				author.Status = models.StatusBanned
				author.BanReason = &reason
				author.BanUntil = nil // indefinite
				if err := tx.SaveUser(author); err != nil {
					return err
				}
			}
		}

		if (action == ReportRejectReview || action == ReportBanReview) && report.Review != nil {
			if err := tx.DeleteReview(report.Review); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return models.ReportResolved, nil
}

// DismissReport closes a report without touching the reported content.
func (s *Service) DismissReport(id uint, note *string) error {
	return s.Store.WithTx(func(tx storage.Storage) error {
		report, err := tx.GetReviewReportByID(id)
		if err != nil {
			return wrapNotFound(err)
		}
		report.Status = models.ReportDismissed
		if note != nil {
			report.ReviewerNote = note
		}
		return tx.SaveReviewReport(report)
	})
}

// UpdatePermission changes a user's role and keeps the admins table in
// sync: elevated roles get a mirror Admin row sharing the user's credential
// hash, demotion removes it. Role write and mirror sync share one commit.
func (s *Service) UpdatePermission(userID uint, role string) error {
	return s.Store.WithTx(func(tx storage.Storage) error {
		user, err := tx.GetUserByID(userID)
		if err != nil {
			return wrapNotFound(err)
		}
		user.Role = role
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		mirror, err := tx.GetAdminByUsername(user.Phone)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if models.IsElevatedRole(role) {
			if mirror == nil {
				return tx.CreateAdmin(&models.Admin{
					Username:     user.Phone,
					PasswordHash: user.PasswordHash,
					Role:         adminRoleFor(role),
				})
			}
			mirror.PasswordHash = user.PasswordHash
			mirror.Role = adminRoleFor(role)
			return tx.SaveAdmin(mirror)
		}

		if mirror != nil {
			return tx.DeleteAdmin(mirror)
		}
		return nil
	})
}

func adminRoleFor(userRole string) string {
	if userRole == models.RoleWikiAdmin {
		return models.AdminRoleWikiAdmin
	}
	return models.AdminRoleAdmin
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
