// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/critica/internal/core/title"
	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/ctxutil"
	"github.com/taibuivan/critica/internal/platform/dberr"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
	"github.com/taibuivan/critica/pkg/uuid"
)

// # Dependencies

// TitleResolver confirms a title exists before contributions attach to it.
// The title repository satisfies this directly.
type TitleResolver interface {
	GetByID(context stdctx.Context, id string) (*title.Title, error)
}

// RatingInvalidator drops the cached rating aggregate for a title after a
// review write changes it.
type RatingInvalidator interface {
	Invalidate(context stdctx.Context, titleID string) error
}

// # Service

// Service implements review business logic.
type Service struct {
	repository Repository
	titles     TitleResolver
	ratings    RatingInvalidator
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, titles TitleResolver, ratings RatingInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		titles:     titles,
		ratings:    ratings,
		logger:     logger,
	}
}

/*
List returns a page of reviews for a title, oldest first.

Description: The title is resolved first so reviews of an unknown title
report 404 rather than an empty page.

Parameters:
  - context: context.Context
  - titleID: string
  - params: pagination.Params

Returns:
  - []Review: Page of reviews
  - int: Total count
  - err: NotFound for an unknown title, storage failures otherwise
*/
func (service *Service) List(context stdctx.Context, titleID string, params pagination.Params) ([]Review, int, error) {
	if _, err := service.titles.GetByID(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repository.ListByTitle(context, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}

	return reviews, total, nil
}

// Get returns a single review scoped to its title.
func (service *Service) Get(context stdctx.Context, titleID, reviewID string) (*Review, error) {
	return service.repository.GetByID(context, titleID, reviewID)
}

// Input holds the author-supplied review fields.
type Input struct {
	Text  string
	Score int
}

/*
Create attaches a new review from the acting account to a title.

Description: Duplicate detection is delegated to the storage unique
constraint on (title, author). The insert runs unconditionally and a
unique violation is classified as a conflict, so two concurrent
submissions from the same account resolve to exactly one stored review.

Parameters:
  - context: context.Context
  - actor: perm.Actor
  - titleID: string
  - input: Input

Returns:
  - *Review: Created review
  - err: Unauthorized, NotFound, Validation, Conflict or storage errors
*/
func (service *Service) Create(context stdctx.Context, actor perm.Actor, titleID string, input Input) (*Review, error) {
	if err := service.authorize(context, actor, perm.ActionCreate, ""); err != nil {
		return nil, err
	}

	if _, err := service.titles.GetByID(context, titleID); err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &Review{
		ID:        uuid.New(),
		TitleID:   titleID,
		AuthorID:  actor.UserID,
		Text:      input.Text,
		Score:     input.Score,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("You have already reviewed this title")
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.invalidateRating(context, titleID)
	return review, nil
}

// UpdateInput holds partial-update fields. Nil pointers leave the stored
// value untouched.
type UpdateInput struct {
	Text  *string
	Score *int
}

/*
Update rewrites a review's text and score.

Description: Only the review's author, a moderator, or an admin may
update it. The derived rating for the title is invalidated afterwards
since the score may have changed.

Returns:
  - *Review: Updated review
  - err: Unauthorized, Forbidden, NotFound, Validation or storage errors
*/
func (service *Service) Update(context stdctx.Context, actor perm.Actor, titleID, reviewID string, input UpdateInput) (*Review, error) {
	review, err := service.repository.GetByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := service.authorize(context, actor, perm.ActionUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	review.Text = pointer.Fallback(input.Text, review.Text)
	review.Score = pointer.Fallback(input.Score, review.Score)

	if err := validateInput(Input{Text: review.Text, Score: review.Score}); err != nil {
		return nil, err
	}

	review.UpdatedAt = time.Now()
	if err := service.repository.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.invalidateRating(context, titleID)
	return review, nil
}

/*
Delete removes a review and its comments.

Returns:
  - err: Unauthorized, Forbidden, NotFound or storage errors
*/
func (service *Service) Delete(context stdctx.Context, actor perm.Actor, titleID, reviewID string) error {
	review, err := service.repository.GetByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := service.authorize(context, actor, perm.ActionDelete, review.AuthorID); err != nil {
		return err
	}

	if err := service.repository.Delete(context, titleID, reviewID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.invalidateRating(context, titleID)
	return nil
}

// # Internal Helpers

// authorize runs the permission evaluator and maps a denial to the API
// error surface. The denial reason is logged, never the actor's secrets.
func (service *Service) authorize(context stdctx.Context, actor perm.Actor, action perm.Action, authorID string) error {
	decision := perm.Decide(actor, action, perm.Resource{
		Kind:     perm.KindContribution,
		AuthorID: authorID,
	})
	if decision.Allowed {
		return nil
	}

	ctxutil.GetLogger(context).InfoContext(context, "review_access_denied",
		slog.String("action", string(action)),
		slog.String("reason", string(decision.Reason)),
	)

	if decision.Reason == perm.ReasonUnauthenticated {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You cannot modify another contributor's review")
}

// invalidateRating drops the cached rating aggregate. A cache failure is
// logged and absorbed; the next read recomputes from storage.
func (service *Service) invalidateRating(context stdctx.Context, titleID string) {
	if err := service.ratings.Invalidate(context, titleID); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "rating_cache_invalidate_failed",
			slog.String("title_id", titleID),
			slog.Any("error", err),
		)
	}
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxTextLength).
		Range(FieldScore, input.Score, MinScore, MaxScore)
	return validator.Err()
}
