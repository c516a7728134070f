// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	stdctx "context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/social/comment"
	"github.com/taibuivan/critica/internal/social/review"
	"github.com/taibuivan/critica/pkg/pointer"
)

// # Fakes

type fakeRepo struct {
	comments map[string]*comment.Comment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{comments: map[string]*comment.Comment{}}
}

func (repo *fakeRepo) ListByReview(_ stdctx.Context, reviewID string, _, _ int) ([]comment.Comment, int, error) {
	page := []comment.Comment{}
	for _, stored := range repo.comments {
		if stored.ReviewID == reviewID {
			page = append(page, *stored)
		}
	}
	return page, len(page), nil
}

func (repo *fakeRepo) GetByID(_ stdctx.Context, reviewID, commentID string) (*comment.Comment, error) {
	stored, ok := repo.comments[commentID]
	if !ok || stored.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *stored
	return &clone, nil
}

func (repo *fakeRepo) Create(_ stdctx.Context, entity *comment.Comment) error {
	clone := *entity
	repo.comments[entity.ID] = &clone
	return nil
}

func (repo *fakeRepo) Update(_ stdctx.Context, entity *comment.Comment) error {
	clone := *entity
	repo.comments[entity.ID] = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ stdctx.Context, _, commentID string) error {
	delete(repo.comments, commentID)
	return nil
}

// fakeReviews knows one review, r-1 under t-1.
type fakeReviews struct{}

func (fakeReviews) GetByID(_ stdctx.Context, titleID, reviewID string) (*review.Review, error) {
	if titleID != "t-1" || reviewID != "r-1" {
		return nil, apperr.NotFound("Review")
	}
	return &review.Review{ID: "r-1", TitleID: "t-1", AuthorID: "u-alice", Score: 7}, nil
}

var (
	anonymous = perm.Actor{}
	alice     = perm.Actor{Authenticated: true, UserID: "u-alice", Role: sec.RoleUser}
	bob       = perm.Actor{Authenticated: true, UserID: "u-bob", Role: sec.RoleUser}
	moderator = perm.Actor{Authenticated: true, UserID: "u-mod", Role: sec.RoleModerator}
)

func newTestService(repo *fakeRepo) *comment.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return comment.NewService(repo, fakeReviews{}, logger)
}

func seedComment(t *testing.T, service *comment.Service) *comment.Comment {
	t.Helper()
	created, err := service.Create(stdctx.Background(), bob, "t-1", "r-1", "I disagree")
	require.NoError(t, err)
	return created
}

// # Tests

/*
TestCreate_UnderKnownReview verifies creation, and that a second comment
from the same account is allowed since comments carry no uniqueness rule.
*/
func TestCreate_UnderKnownReview(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	first, err := service.Create(stdctx.Background(), bob, "t-1", "r-1", "I disagree")
	require.NoError(t, err)
	assert.Equal(t, "I disagree", first.Text)
	assert.Equal(t, "u-bob", first.AuthorID)

	_, err = service.Create(stdctx.Background(), bob, "t-1", "r-1", "on reflection, strongly")
	require.NoError(t, err)
	assert.Len(t, repo.comments, 2)
}

/*
TestCreate_UnknownReview verifies a 404 when the parent review is missing
or lives under a different title.
*/
func TestCreate_UnknownReview(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.Create(stdctx.Background(), bob, "t-1", "ghost", "hello?")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)

	_, err = service.Create(stdctx.Background(), bob, "t-other", "r-1", "wrong door")
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestCreate_Anonymous verifies that an unauthenticated caller cannot
comment.
*/
func TestCreate_Anonymous(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.Create(stdctx.Background(), anonymous, "t-1", "r-1", "drive-by")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestCreate_EmptyText verifies the body is required.
*/
func TestCreate_EmptyText(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.Create(stdctx.Background(), bob, "t-1", "r-1", "")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestUpdate_MutationGate verifies that the author and a moderator may edit
a comment while an unrelated account may not. The review's author holds
no special rights over comments under their review.
*/
func TestUpdate_MutationGate(t *testing.T) {
	service := newTestService(newFakeRepo())
	seeded := seedComment(t, service)

	_, err := service.Update(stdctx.Background(), alice, "t-1", "r-1", seeded.ID, pointer.To("hijacked"))
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	byAuthor, err := service.Update(stdctx.Background(), bob, "t-1", "r-1", seeded.ID, pointer.To("clarified"))
	require.NoError(t, err)
	assert.Equal(t, "clarified", byAuthor.Text)

	byModerator, err := service.Update(stdctx.Background(), moderator, "t-1", "r-1", seeded.ID, pointer.To("redacted"))
	require.NoError(t, err)
	assert.Equal(t, "redacted", byModerator.Text)
}

/*
TestDelete_MutationGate verifies the same gate on removal.
*/
func TestDelete_MutationGate(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)
	seeded := seedComment(t, service)

	err := service.Delete(stdctx.Background(), alice, "t-1", "r-1", seeded.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	err = service.Delete(stdctx.Background(), moderator, "t-1", "r-1", seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.comments)
}
