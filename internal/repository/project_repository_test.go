//go:build integration
// +build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"pagure/internal/models"
	"pagure/internal/repository"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository(t *testing.T) {
	ctx := t.Context()

	trManager := manager.Must(trmpgx.NewDefaultFactory(db))

	repo := repository.NewProjectRepository(
		db,
		trmpgx.DefaultCtxGetter,
		retrier,
	)

	_ = trManager.Do(ctx, func(ctx context.Context) error {
		project := &models.Project{
			Namespace:  "fedora-infra",
			Name:       "pagure",
			Owner:      "pingou",
			Committers: []string{"alice"},
			Settings:   models.DefaultProjectSettings(),
		}

		t.Run("Create", func(t *testing.T) {
			err := repo.Create(ctx, project)
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, project.ID)
		})

		t.Run("GetByID", func(t *testing.T) {
			actual, err := repo.GetByID(ctx, project.ID)
			require.NoError(t, err)
			require.Equal(t, project.FullName(), actual.FullName())
			require.Equal(t, project.Owner, actual.Owner)
			require.Equal(t, []string{"alice"}, actual.Committers)
			require.Empty(t, actual.BlockedUsers)
			require.True(t, actual.Settings.PullRequests)
			require.Nil(t, actual.Settings.MinimumScore)
		})

		t.Run("UpdateSettings", func(t *testing.T) {
			minimum := 2
			settings := models.ProjectSettings{
				PullRequests:      true,
				AssigneeOnlyMerge: true,
				MinimumScore:      &minimum,
			}
			require.NoError(t, repo.UpdateSettings(ctx, project.ID, settings))

			actual, err := repo.GetByID(ctx, project.ID)
			require.NoError(t, err)
			require.Equal(t, settings, actual.Settings)
		})

		t.Run("Fork", func(t *testing.T) {
			fork := &models.Project{
				Namespace: "fedora-infra",
				Name:      "pagure",
				Owner:     "carol",
				ParentID:  &project.ID,
				Settings:  models.DefaultProjectSettings(),
			}
			require.NoError(t, repo.Create(ctx, fork))

			actual, err := repo.GetByID(ctx, fork.ID)
			require.NoError(t, err)
			require.Equal(t, &project.ID, actual.ParentID)
			require.Equal(t, "forks/carol/fedora-infra/pagure.git", actual.RelativePath())
		})

		t.Run("Not found", func(t *testing.T) {
			_, err := repo.GetByID(ctx, uuid.New())
			require.ErrorIs(t, err, repository.ErrNotFound)

			err = repo.UpdateSettings(ctx, uuid.New(), models.DefaultProjectSettings())
			require.ErrorIs(t, err, repository.ErrNotFound)
		})

		return fmt.Errorf("error for rollback")
	})
}
