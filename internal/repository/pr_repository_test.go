//go:build integration
// +build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pagure/internal/models"
	"pagure/internal/repository"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPRRepository(t *testing.T) {
	ctx := t.Context()
	trManager := manager.Must(trmpgx.NewDefaultFactory(db))

	prRepo := repository.NewPRRepository(
		db,
		trmpgx.DefaultCtxGetter,
		retrier,
	)

	projectRepo := repository.NewProjectRepository(db, trmpgx.DefaultCtxGetter, retrier)

	_ = trManager.Do(ctx, func(ctx context.Context) error {
		project := &models.Project{Name: "pagure", Owner: "pingou", Settings: models.DefaultProjectSettings()}
		require.NoError(t, projectRepo.Create(ctx, project))

		pr := &models.PullRequest{
			ProjectID:    project.ID,
			SourceBranch: "feature",
			TargetBranch: "main",
			Title:        "Add feature",
			Author:       "carol",
		}

		t.Run("Create PR", func(t *testing.T) {
			err := prRepo.Create(ctx, pr)
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, pr.ID)
			require.Equal(t, models.PRStatusOpen, pr.Status)
		})

		t.Run("GetByID", func(t *testing.T) {
			actual, err := prRepo.GetByID(ctx, pr.ID)
			require.NoError(t, err)
			require.Equal(t, pr.ID, actual.ID)
			require.Equal(t, pr.Title, actual.Title)
			require.Equal(t, pr.Author, actual.Author)
			require.Equal(t, models.PRStatusOpen, actual.Status)
			require.Nil(t, actual.MergeStatus)
			require.Nil(t, actual.SourceProjectID)
			require.Empty(t, actual.Comments)
		})

		t.Run("Comments", func(t *testing.T) {
			require.NoError(t, prRepo.AddComment(ctx, &models.Comment{PRID: pr.ID, Author: "alice", Text: "+1", Score: 1}))
			require.NoError(t, prRepo.AddComment(ctx, &models.Comment{PRID: pr.ID, Author: "bob", Text: "looks odd", Score: 0}))

			actual, err := prRepo.GetByIDForUpdate(ctx, pr.ID)
			require.NoError(t, err)
			require.Len(t, actual.Comments, 2)
			require.Equal(t, 1, actual.Score())
		})

		t.Run("UpdateMergeStatus", func(t *testing.T) {
			err := prRepo.UpdateMergeStatus(ctx, pr.ID, models.MergeStatusFastForward, "src", "tgt")
			require.NoError(t, err)

			actual, err := prRepo.GetByID(ctx, pr.ID)
			require.NoError(t, err)
			status, ok := actual.CachedMergeStatus("src", "tgt")
			require.True(t, ok)
			require.Equal(t, models.MergeStatusFastForward, status)
		})

		t.Run("Assign", func(t *testing.T) {
			assignee := "alice"
			require.NoError(t, prRepo.Assign(ctx, pr.ID, &assignee))

			actual, err := prRepo.GetByID(ctx, pr.ID)
			require.NoError(t, err)
			require.Equal(t, &assignee, actual.Assignee)

			require.ErrorIs(t, prRepo.Assign(ctx, uuid.New(), nil), repository.ErrNotFound)
		})

		t.Run("Flags", func(t *testing.T) {
			percent := 50
			flag := &models.Flag{PRID: pr.ID, UID: "ci-1", Username: "jenkins", Status: models.FlagStatusPending, Percent: &percent}
			require.NoError(t, prRepo.AddFlag(ctx, flag))

			update := &models.Flag{PRID: pr.ID, UID: "ci-1", Username: "jenkins", Status: models.FlagStatusSuccess, URL: "http://ci/1"}
			require.NoError(t, prRepo.AddFlag(ctx, update))
			require.Equal(t, flag.ID, update.ID)

			flags, err := prRepo.ListFlags(ctx, pr.ID)
			require.NoError(t, err)
			require.Len(t, flags, 1)
			require.Equal(t, models.FlagStatusSuccess, flags[0].Status)
			require.Nil(t, flags[0].Percent)
			require.Equal(t, "http://ci/1", flags[0].URL)
		})

		t.Run("ListByProject", func(t *testing.T) {
			open := models.PRStatusOpen
			prs, err := prRepo.ListByProject(ctx, project.ID, &open)
			require.NoError(t, err)
			require.Len(t, prs, 1)
			require.Equal(t, pr.ID, prs[0].ID)

			merged := models.PRStatusMerged
			prs, err = prRepo.ListByProject(ctx, project.ID, &merged)
			require.NoError(t, err)
			require.Empty(t, prs)
		})

		t.Run("Merge PR", func(t *testing.T) {
			at := time.Now().UTC().Truncate(time.Microsecond)
			err := prRepo.MarkMerged(ctx, pr.ID, "alice", "0123abcd", at)
			require.NoError(t, err)

			fetched, err := prRepo.GetByID(ctx, pr.ID)
			require.NoError(t, err)
			require.Equal(t, models.PRStatusMerged, fetched.Status)
			require.Equal(t, "alice", *fetched.ClosedBy)
			require.Equal(t, "0123abcd", *fetched.MergeCommit)
			require.True(t, at.Equal(*fetched.ClosedAt))
		})

		t.Run("terminal state is kept", func(t *testing.T) {
			err := prRepo.MarkClosed(ctx, pr.ID, "carol", time.Now())
			require.ErrorIs(t, err, repository.ErrStateChanged)

			err = prRepo.MarkMerged(ctx, pr.ID, "bob", "ffff", time.Now())
			require.ErrorIs(t, err, repository.ErrStateChanged)

			fetched, err := prRepo.GetByID(ctx, pr.ID)
			require.NoError(t, err)
			require.Equal(t, models.PRStatusMerged, fetched.Status)
			require.Equal(t, "alice", *fetched.ClosedBy)
		})

		t.Run("Close PR", func(t *testing.T) {
			other := &models.PullRequest{ProjectID: project.ID, SourceBranch: "b", TargetBranch: "main", Title: "t", Author: "carol"}
			require.NoError(t, prRepo.Create(ctx, other))
			require.NoError(t, prRepo.MarkClosed(ctx, other.ID, "carol", time.Now()))

			fetched, err := prRepo.GetByID(ctx, other.ID)
			require.NoError(t, err)
			require.Equal(t, models.PRStatusClosed, fetched.Status)
			require.Nil(t, fetched.MergeCommit)
		})

		t.Run("Not found", func(t *testing.T) {
			_, err := prRepo.GetByID(ctx, uuid.New())
			require.ErrorIs(t, err, repository.ErrNotFound)
		})

		return fmt.Errorf("rollback transaction")
	})
}
