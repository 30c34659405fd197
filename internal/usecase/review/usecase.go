package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/uow"
	"loanflow-backend/internal/domain/user"
	"loanflow-backend/internal/infrastructure/queue"
	"loanflow-backend/internal/usecase/document"
	"loanflow-backend/pkg/apperror"

	"gorm.io/gorm"
)

// EventPublisher fans status changes out to downstream consumers
// (notifications, dashboards). Publishing is fire-and-forget.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.StatusEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, queue.StatusEvent) {}

type Usecase struct {
	users  user.Repository
	apps   application.Repository
	uow    uow.UnitOfWork
	docs   *document.Usecase
	events EventPublisher
}

func NewUsecase(users user.Repository, apps application.Repository, tx uow.UnitOfWork, docs *document.Usecase, events EventPublisher) *Usecase {
	if events == nil {
		events = noopPublisher{}
	}
	return &Usecase{users: users, apps: apps, uow: tx, docs: docs, events: events}
}

// List exposes the officer queue. Unknown sort fields fall back to newest
// first inside the repository.
func (u *Usecase) List(ctx context.Context, f application.ListFilter) ([]application.LoanApplication, error) {
	if f.Status != "" {
		switch f.Status {
		case application.StatusDraft, application.StatusSubmitted, application.StatusDocumentsPending,
			application.StatusUnderReview, application.StatusApproved, application.StatusRejected:
		default:
			return nil, apperror.NewValidation("status", "is not a recognized application status")
		}
	}
	return u.apps.List(ctx, f)
}

// ReviewDocument applies an officer's verify/reject call to one document and
// recomputes the parent application's aggregate status: all required
// verified puts it under review, any rejection sends it back to the
// applicant as documents_pending.
func (u *Usecase) ReviewDocument(ctx context.Context, applicationID string, docType user.DocType, decision user.DocStatus, reason string) (*user.Document, error) {
	if decision != user.DocVerified && decision != user.DocRejected {
		return nil, apperror.NewValidation("status", "decision must be verified or rejected")
	}

	app, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperror.NewNotFound("application", applicationID)
	}

	doc, err := u.docs.SetStatus(ctx, app.UserID, docType, decision, reason)
	if err != nil {
		return nil, err
	}

	// Aggregate recompute runs under the application lock so concurrent
	// officer calls don't interleave status writes.
	err = u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, locked *application.LoanApplication) error {
		owner, err := r.Users.GetByUserID(ctx, locked.UserID)
		if err != nil {
			return err
		}
		docs, err := r.Users.ListDocuments(ctx, owner.ID)
		if err != nil {
			return err
		}

		var target application.Status
		switch {
		case document.IsComplete(docs, user.RequiredDocTypes):
			target = application.StatusUnderReview
		case anyRejected(docs):
			target = application.StatusDocumentsPending
		default:
			return nil
		}
		if locked.Status == target || !application.CanTransition(locked.Status, target) {
			return nil
		}
		if err := locked.Transition(target); err != nil {
			return err
		}
		if err := r.Applications.Save(ctx, locked); err != nil {
			return err
		}
		u.events.Publish(ctx, queue.StatusEvent{
			ApplicationID: locked.ApplicationID,
			UserID:        locked.UserID,
			Kind:          "application",
			Status:        string(locked.Status),
			At:            time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.Publish(ctx, queue.StatusEvent{
		ApplicationID: app.ApplicationID,
		UserID:        app.UserID,
		Kind:          "document",
		Subject:       string(docType),
		Status:        string(doc.Status),
		Reason:        doc.RejectionReason,
		At:            time.Now().UTC(),
	})
	return doc, nil
}

func anyRejected(docs []user.Document) bool {
	for _, d := range docs {
		if d.Status == user.DocRejected {
			return true
		}
	}
	return false
}

type Decision struct {
	Approve         bool
	Note            string
	RejectionReason string
}

// Decide settles the application. Approval demands a complete, fully
// verified checklist; the error names what is still missing. Notes append to
// the audit trail rather than overwriting it.
func (u *Usecase) Decide(ctx context.Context, applicationID string, d Decision) (*application.LoanApplication, error) {
	var out *application.LoanApplication
	err := u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, locked *application.LoanApplication) error {
		owner, err := r.Users.GetByUserID(ctx, locked.UserID)
		if err != nil {
			return err
		}

		target := application.StatusRejected
		if d.Approve {
			docs, err := r.Users.ListDocuments(ctx, owner.ID)
			if err != nil {
				return err
			}
			if missing := document.Missing(docs, user.RequiredDocTypes); len(missing) > 0 {
				names := make([]string, len(missing))
				for i, m := range missing {
					names[i] = string(m)
				}
				return apperror.NewPrecondition("cannot approve with unverified documents", names...)
			}
			target = application.StatusApproved
		}

		if err := locked.Transition(target); err != nil {
			return err
		}
		if note := strings.TrimSpace(d.Note); note != "" {
			if locked.ReviewNotes != "" {
				locked.ReviewNotes += "\n"
			}
			locked.ReviewNotes += note
		}
		if !d.Approve {
			locked.RejectionReason = d.RejectionReason
		}
		if err := r.Applications.Save(ctx, locked); err != nil {
			return err
		}
		out = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("application", applicationID)
		}
		return nil, err
	}

	u.events.Publish(ctx, queue.StatusEvent{
		ApplicationID: out.ApplicationID,
		UserID:        out.UserID,
		Kind:          "application",
		Status:        string(out.Status),
		Reason:        out.RejectionReason,
		At:            time.Now().UTC(),
	})
	return out, nil
}

// Assign hands the application to an officer. No workflow constraint.
func (u *Usecase) Assign(ctx context.Context, applicationID, officerID string) (*application.LoanApplication, error) {
	var out *application.LoanApplication
	err := u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, locked *application.LoanApplication) error {
		locked.AssignedTo = officerID
		if err := r.Applications.Save(ctx, locked); err != nil {
			return err
		}
		out = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
