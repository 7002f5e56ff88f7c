package repository

import (
	"context"
	"time"

	"pagure/internal/models"
	"pagure/internal/retry"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var prColumns = []string{
	"pr.id",
	"pr.project_id",
	"pr.source_project_id",
	"pr.source_branch",
	"pr.target_branch",
	"pr.title",
	"pr.author",
	"pr.assignee",
	"pr.status",
	"pr.merge_status",
	"pr.merge_status_source",
	"pr.merge_status_target",
	"pr.closed_by",
	"pr.closed_at",
	"pr.merge_commit",
	"pr.created_at",
	"pr.updated_at",
}

type PRRepository struct {
	db      *pgxpool.Pool
	getter  *trmpgx.CtxGetter
	psql    sq.StatementBuilderType
	retrier retry.Retrier
}

func NewPRRepository(db *pgxpool.Pool, c *trmpgx.CtxGetter, r retry.Retrier) *PRRepository {
	return &PRRepository{
		db:      db,
		getter:  c,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		retrier: r,
	}
}

func (r *PRRepository) Create(ctx context.Context, pr *models.PullRequest) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	now := time.Now().UTC()
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = now
	}
	pr.UpdatedAt = pr.CreatedAt
	if pr.Status == "" {
		pr.Status = models.PRStatusOpen
	}

	query := r.psql.Insert("pull_requests").
		Columns(
			"id", "project_id", "source_project_id", "source_branch", "target_branch",
			"title", "author", "assignee", "status", "created_at", "updated_at",
		).
		Values(
			pr.ID, pr.ProjectID, pr.SourceProjectID, pr.SourceBranch, pr.TargetBranch,
			pr.Title, pr.Author, pr.Assignee, string(pr.Status), pr.CreatedAt, pr.UpdatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)

	err = r.retrier.Do(ctx, func() error {
		_, retryErr := conn.Exec(ctx, sql, args...)
		return retryErr
	})

	return wrapDBError(err)
}

// GetByID loads the pull request together with its comments, oldest first.
func (r *PRRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PullRequest, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate is GetByID holding a row lock until the surrounding transaction ends.
func (r *PRRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PullRequest, error) {
	return r.get(ctx, id, true)
}

func (r *PRRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.PullRequest, error) {
	query := r.psql.Select(prColumns...).
		From("pull_requests pr").
		Where(sq.Eq{"pr.id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)
	var pr *models.PullRequest

	err = r.retrier.Do(ctx, func() error {
		var scanErr error
		pr, scanErr = scanPR(conn.QueryRow(ctx, sql, args...))
		return scanErr
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	pr.Comments, err = r.ListComments(ctx, pr.ID)
	if err != nil {
		return nil, err
	}

	return pr, nil
}

// ListByProject returns the project's pull requests, newest first. A nil status lists all of them.
func (r *PRRepository) ListByProject(ctx context.Context, projectID uuid.UUID, status *models.PRStatus) ([]*models.PullRequest, error) {
	query := r.psql.Select(prColumns...).
		From("pull_requests pr").
		Where(sq.Eq{"pr.project_id": projectID}).
		OrderBy("pr.created_at DESC")
	if status != nil {
		query = query.Where(sq.Eq{"pr.status": string(*status)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)
	var prs []*models.PullRequest

	err = r.retrier.Do(ctx, func() error {
		prs = make([]*models.PullRequest, 0)

		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			pr, err := scanPR(rows)
			if err != nil {
				return err
			}
			prs = append(prs, pr)
		}

		return rows.Err()
	})

	return prs, wrapDBError(err)
}

// UpdateMergeStatus stores the advisory merge status for the given tips.
func (r *PRRepository) UpdateMergeStatus(ctx context.Context, id uuid.UUID, status models.MergeStatus, sourceTip, targetTip string) error {
	query := r.psql.Update("pull_requests").
		Set("merge_status", string(status)).
		Set("merge_status_source", sourceTip).
		Set("merge_status_target", targetTip).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, false)
}

// MarkMerged moves an open pull request to Merged. ErrStateChanged means it was no longer open.
func (r *PRRepository) MarkMerged(ctx context.Context, id uuid.UUID, actor, mergeCommit string, at time.Time) error {
	query := r.psql.Update("pull_requests").
		Set("status", string(models.PRStatusMerged)).
		Set("closed_by", actor).
		Set("closed_at", at).
		Set("merge_commit", mergeCommit).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "status": string(models.PRStatusOpen)})

	return r.exec(ctx, query, true)
}

// MarkClosed moves an open pull request to Closed. ErrStateChanged means it was no longer open.
func (r *PRRepository) MarkClosed(ctx context.Context, id uuid.UUID, actor string, at time.Time) error {
	query := r.psql.Update("pull_requests").
		Set("status", string(models.PRStatusClosed)).
		Set("closed_by", actor).
		Set("closed_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "status": string(models.PRStatusOpen)})

	return r.exec(ctx, query, true)
}

// Assign sets or clears (nil) the assignee.
func (r *PRRepository) Assign(ctx context.Context, id uuid.UUID, assignee *string) error {
	query := r.psql.Update("pull_requests").
		Set("assignee", assignee).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, false)
}

func (r *PRRepository) AddComment(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := r.psql.Insert("pr_comments").
		Columns("id", "pull_request_id", "author", "text", "score", "created_at").
		Values(c.ID, c.PRID, c.Author, c.Text, c.Score, c.CreatedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)

	err = r.retrier.Do(ctx, func() error {
		_, retryErr := conn.Exec(ctx, sql, args...)
		return retryErr
	})

	return wrapDBError(err)
}

func (r *PRRepository) ListComments(ctx context.Context, prID uuid.UUID) ([]*models.Comment, error) {
	query := r.psql.Select("id", "pull_request_id", "author", "text", "score", "created_at").
		From("pr_comments").
		Where(sq.Eq{"pull_request_id": prID}).
		OrderBy("created_at", "id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)
	var comments []*models.Comment

	err = r.retrier.Do(ctx, func() error {
		comments = make([]*models.Comment, 0)

		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c := &models.Comment{}
			if err := rows.Scan(&c.ID, &c.PRID, &c.Author, &c.Text, &c.Score, &c.CreatedAt); err != nil {
				return err
			}
			comments = append(comments, c)
		}

		return rows.Err()
	})

	return comments, wrapDBError(err)
}

// AddFlag inserts the flag or, when the pull request already has one with the
// same uid, updates it in place. f receives the stored id and timestamps.
func (r *PRRepository) AddFlag(ctx context.Context, f *models.Flag) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := r.psql.Insert("pr_flags").
		Columns("id", "pull_request_id", "uid", "username", "status", "percent", "comment", "url", "created_at", "updated_at").
		Values(f.ID, f.PRID, f.UID, f.Username, string(f.Status), f.Percent, f.Comment, f.URL, now, now).
		Suffix(`ON CONFLICT (pull_request_id, uid) DO UPDATE SET
			username = EXCLUDED.username,
			status = EXCLUDED.status,
			percent = EXCLUDED.percent,
			comment = EXCLUDED.comment,
			url = EXCLUDED.url,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)

	err = r.retrier.Do(ctx, func() error {
		return conn.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	})

	return wrapDBError(err)
}

func (r *PRRepository) ListFlags(ctx context.Context, prID uuid.UUID) ([]*models.Flag, error) {
	query := r.psql.Select("id", "pull_request_id", "uid", "username", "status", "percent", "comment", "url", "created_at", "updated_at").
		From("pr_flags").
		Where(sq.Eq{"pull_request_id": prID}).
		OrderBy("created_at", "uid")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)
	var flags []*models.Flag

	err = r.retrier.Do(ctx, func() error {
		flags = make([]*models.Flag, 0)

		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			f := &models.Flag{}
			var status string
			if err := rows.Scan(
				&f.ID, &f.PRID, &f.UID, &f.Username, &status,
				&f.Percent, &f.Comment, &f.URL, &f.CreatedAt, &f.UpdatedAt,
			); err != nil {
				return err
			}
			f.Status = models.FlagStatus(status)
			flags = append(flags, f)
		}

		return rows.Err()
	})

	return flags, wrapDBError(err)
}

// exec runs an update; with mustMatch an update touching no row is ErrStateChanged.
func (r *PRRepository) exec(ctx context.Context, query sq.UpdateBuilder, mustMatch bool) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)

	err = r.retrier.Do(ctx, func() error {
		tag, retryErr := conn.Exec(ctx, sql, args...)
		if retryErr != nil {
			return retryErr
		}
		if tag.RowsAffected() == 0 {
			if mustMatch {
				return ErrStateChanged
			}
			return ErrNotFound
		}
		return nil
	})

	return wrapDBError(err)
}

func scanPR(row pgx.Row) (*models.PullRequest, error) {
	pr := &models.PullRequest{}
	var (
		status      string
		mergeStatus *string
	)

	if err := row.Scan(
		&pr.ID,
		&pr.ProjectID,
		&pr.SourceProjectID,
		&pr.SourceBranch,
		&pr.TargetBranch,
		&pr.Title,
		&pr.Author,
		&pr.Assignee,
		&status,
		&mergeStatus,
		&pr.MergeStatusSource,
		&pr.MergeStatusTarget,
		&pr.ClosedBy,
		&pr.ClosedAt,
		&pr.MergeCommit,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	); err != nil {
		return nil, err
	}

	pr.Status = models.PRStatus(status)
	if mergeStatus != nil {
		ms := models.MergeStatus(*mergeStatus)
		pr.MergeStatus = &ms
	}

	return pr, nil
}
