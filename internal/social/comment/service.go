// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/ctxutil"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/internal/social/review"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
	"github.com/taibuivan/critica/pkg/uuid"
)

// ReviewResolver confirms the parent review exists under its title before
// comments attach to it. The review repository satisfies this directly.
type ReviewResolver interface {
	GetByID(context stdctx.Context, titleID, reviewID string) (*review.Review, error)
}

// Service implements comment business logic.
type Service struct {
	repository Repository
	reviews    ReviewResolver
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, reviews ReviewResolver, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		reviews:    reviews,
		logger:     logger,
	}
}

/*
List returns a page of comments for a review, oldest first.

Description: The parent review is resolved through its title first, so
comments under an unknown title or review report 404.

Returns:
  - []Comment: Page of comments
  - int: Total count
  - err: NotFound for an unknown review, storage failures otherwise
*/
func (service *Service) List(context stdctx.Context, titleID, reviewID string, params pagination.Params) ([]Comment, int, error) {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repository.ListByReview(context, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}

	return comments, total, nil
}

// Get returns a single comment scoped to its review.
func (service *Service) Get(context stdctx.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.GetByID(context, reviewID, commentID)
}

/*
Create attaches a new comment from the acting account to a review.

Returns:
  - *Comment: Created comment
  - err: Unauthorized, NotFound, Validation or storage errors
*/
func (service *Service) Create(context stdctx.Context, actor perm.Actor, titleID, reviewID, text string) (*Comment, error) {
	if err := service.authorize(context, actor, perm.ActionCreate, ""); err != nil {
		return nil, err
	}

	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	if err := validateText(text); err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &Comment{
		ID:        uuid.New(),
		ReviewID:  reviewID,
		AuthorID:  actor.UserID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	return comment, nil
}

/*
Update rewrites a comment's text. Only the comment's author, a moderator,
or an admin may update it.

Returns:
  - *Comment: Updated comment
  - err: Unauthorized, Forbidden, NotFound, Validation or storage errors
*/
func (service *Service) Update(context stdctx.Context, actor perm.Actor, titleID, reviewID, commentID string, text *string) (*Comment, error) {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repository.GetByID(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := service.authorize(context, actor, perm.ActionUpdate, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Text = pointer.Fallback(text, comment.Text)
	if err := validateText(comment.Text); err != nil {
		return nil, err
	}

	comment.UpdatedAt = time.Now()
	if err := service.repository.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	return comment, nil
}

/*
Delete removes a comment under the same mutation gate as Update.

Returns:
  - err: Unauthorized, Forbidden, NotFound or storage errors
*/
func (service *Service) Delete(context stdctx.Context, actor perm.Actor, titleID, reviewID, commentID string) error {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.repository.GetByID(context, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := service.authorize(context, actor, perm.ActionDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repository.Delete(context, reviewID, commentID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	return nil
}

// authorize runs the permission evaluator and maps a denial to the API
// error surface.
func (service *Service) authorize(context stdctx.Context, actor perm.Actor, action perm.Action, authorID string) error {
	decision := perm.Decide(actor, action, perm.Resource{
		Kind:     perm.KindContribution,
		AuthorID: authorID,
	})
	if decision.Allowed {
		return nil
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_access_denied",
		slog.String("action", string(action)),
		slog.String("reason", string(decision.Reason)),
	)

	if decision.Reason == perm.ReasonUnauthenticated {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You cannot modify another contributor's comment")
}

func validateText(text string) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, MaxTextLength)
	return validator.Err()
}
