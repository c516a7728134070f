// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	stdctx "context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critica/internal/core/title"
	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/social/review"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
)

// # Fakes

// fakeRepo emulates the storage unique index on (titleid, authorid).
type fakeRepo struct {
	reviews map[string]*review.Review
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: map[string]*review.Review{}}
}

func (repo *fakeRepo) ListByTitle(_ stdctx.Context, titleID string, _, _ int) ([]review.Review, int, error) {
	page := []review.Review{}
	for _, stored := range repo.reviews {
		if stored.TitleID == titleID {
			page = append(page, *stored)
		}
	}
	return page, len(page), nil
}

func (repo *fakeRepo) GetByID(_ stdctx.Context, titleID, reviewID string) (*review.Review, error) {
	stored, ok := repo.reviews[reviewID]
	if !ok || stored.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *stored
	return &clone, nil
}

func (repo *fakeRepo) Create(_ stdctx.Context, entity *review.Review) error {
	for _, stored := range repo.reviews {
		if stored.TitleID == entity.TitleID && stored.AuthorID == entity.AuthorID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	clone := *entity
	repo.reviews[entity.ID] = &clone
	return nil
}

func (repo *fakeRepo) Update(_ stdctx.Context, entity *review.Review) error {
	clone := *entity
	repo.reviews[entity.ID] = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ stdctx.Context, _, reviewID string) error {
	delete(repo.reviews, reviewID)
	return nil
}

type fakeTitles struct {
	known map[string]bool
}

func (titles *fakeTitles) GetByID(_ stdctx.Context, id string) (*title.Title, error) {
	if !titles.known[id] {
		return nil, apperr.NotFound("Title")
	}
	return &title.Title{ID: id, Name: "Known", Year: 2020}, nil
}

type fakeRatings struct {
	invalidated []string
}

func (cache *fakeRatings) Invalidate(_ stdctx.Context, titleID string) error {
	cache.invalidated = append(cache.invalidated, titleID)
	return nil
}

var (
	anonymous = perm.Actor{}
	alice     = perm.Actor{Authenticated: true, UserID: "u-alice", Role: sec.RoleUser}
	bob       = perm.Actor{Authenticated: true, UserID: "u-bob", Role: sec.RoleUser}
	moderator = perm.Actor{Authenticated: true, UserID: "u-mod", Role: sec.RoleModerator}
)

func newTestService(repo *fakeRepo, ratings *fakeRatings) *review.Service {
	titles := &fakeTitles{known: map[string]bool{"t-1": true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(repo, titles, ratings, logger)
}

// # Creation

/*
TestCreate_ScoreBounds verifies the 1..10 scale: both boundary values are
accepted and both neighbours outside are rejected.
*/
func TestCreate_ScoreBounds(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})

	for _, score := range []int{0, 11} {
		_, err := service.Create(stdctx.Background(), alice, "t-1", review.Input{Text: "meh", Score: score})
		ae := apperr.As(err)
		require.NotNil(t, ae, "score %d must be rejected", score)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	}

	low, err := service.Create(stdctx.Background(), alice, "t-1", review.Input{Text: "harsh", Score: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, low.Score)

	high, err := service.Create(stdctx.Background(), bob, "t-1", review.Input{Text: "loved it", Score: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, high.Score)
}

/*
TestCreate_Duplicate verifies that a second review from the same account
for the same title is a conflict, classified from the storage violation.
*/
func TestCreate_Duplicate(t *testing.T) {
	ratings := &fakeRatings{}
	service := newTestService(newFakeRepo(), ratings)

	_, err := service.Create(stdctx.Background(), alice, "t-1", review.Input{Text: "first", Score: 7})
	require.NoError(t, err)

	_, err = service.Create(stdctx.Background(), alice, "t-1", review.Input{Text: "second", Score: 9})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)

	// Only the successful write touched the rating cache.
	assert.Equal(t, []string{"t-1"}, ratings.invalidated)
}

/*
TestCreate_UnknownTitle verifies that reviewing a missing title is a 404.
*/
func TestCreate_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})

	_, err := service.Create(stdctx.Background(), alice, "ghost", review.Input{Text: "lost", Score: 5})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestCreate_Anonymous verifies that an unauthenticated caller cannot create
a review.
*/
func TestCreate_Anonymous(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})

	_, err := service.Create(stdctx.Background(), anonymous, "t-1", review.Input{Text: "drive-by", Score: 5})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

// # Mutation Gate

func seedReview(t *testing.T, service *review.Service) *review.Review {
	t.Helper()
	created, err := service.Create(stdctx.Background(), alice, "t-1", review.Input{Text: "original", Score: 6})
	require.NoError(t, err)
	return created
}

/*
TestUpdate_MutationGate verifies that the author and a moderator may
rewrite a review while an unrelated account may not.
*/
func TestUpdate_MutationGate(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})
	seeded := seedReview(t, service)

	_, err := service.Update(stdctx.Background(), bob, "t-1", seeded.ID, review.UpdateInput{
		Score: pointer.To(1),
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	byAuthor, err := service.Update(stdctx.Background(), alice, "t-1", seeded.ID, review.UpdateInput{
		Text: pointer.To("revised"),
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", byAuthor.Text)
	assert.Equal(t, 6, byAuthor.Score)

	byModerator, err := service.Update(stdctx.Background(), moderator, "t-1", seeded.ID, review.UpdateInput{
		Score: pointer.To(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, byModerator.Score)
}

/*
TestUpdate_RevalidatesScore verifies that a patched score is held to the
same bounds as a fresh one.
*/
func TestUpdate_RevalidatesScore(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})
	seeded := seedReview(t, service)

	_, err := service.Update(stdctx.Background(), alice, "t-1", seeded.ID, review.UpdateInput{
		Score: pointer.To(12),
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestDelete_InvalidatesRating verifies that the author can remove their
review and that the title's cached rating is dropped with it.
*/
func TestDelete_InvalidatesRating(t *testing.T) {
	repo := newFakeRepo()
	ratings := &fakeRatings{}
	service := newTestService(repo, ratings)
	seeded := seedReview(t, service)

	err := service.Delete(stdctx.Background(), alice, "t-1", seeded.ID)

	require.NoError(t, err)
	assert.Empty(t, repo.reviews)
	assert.Equal(t, []string{"t-1", "t-1"}, ratings.invalidated)
}

/*
TestDelete_ForeignDenied verifies an unrelated account cannot delete
someone else's review.
*/
func TestDelete_ForeignDenied(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})
	seeded := seedReview(t, service)

	err := service.Delete(stdctx.Background(), bob, "t-1", seeded.ID)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
}

// # Listing

/*
TestList_UnknownTitle verifies that listing reviews of a missing title is
a 404, not an empty page.
*/
func TestList_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeRatings{})

	_, _, err := service.List(stdctx.Background(), "ghost", pagination.Params{Page: 1, Limit: 20})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
