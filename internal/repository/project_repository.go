package repository

import (
	"context"
	"encoding/json"
	"time"

	"pagure/internal/models"
	"pagure/internal/retry"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var projectColumns = []string{
	"id",
	"namespace",
	"name",
	"owner",
	"is_private",
	"is_mirror",
	"parent_id",
	"committers",
	"blocked_users",
	"settings",
	"created_at",
}

type ProjectRepository struct {
	db      *pgxpool.Pool
	getter  *trmpgx.CtxGetter
	psql    sq.StatementBuilderType
	retrier retry.Retrier
}

func NewProjectRepository(db *pgxpool.Pool, c *trmpgx.CtxGetter, r retry.Retrier) *ProjectRepository {
	return &ProjectRepository{
		db:      db,
		getter:  c,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		retrier: r,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Committers == nil {
		p.Committers = []string{}
	}
	if p.BlockedUsers == nil {
		p.BlockedUsers = []string{}
	}

	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return err
	}

	query := r.psql.Insert("projects").
		Columns(projectColumns...).
		Values(
			p.ID,
			p.Namespace,
			p.Name,
			p.Owner,
			p.IsPrivate,
			p.IsMirror,
			p.ParentID,
			p.Committers,
			p.BlockedUsers,
			settings,
			p.CreatedAt,
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

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := r.psql.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.db)
	p := &models.Project{}
	var settings []byte

	err = r.retrier.Do(ctx, func() error {
		return conn.QueryRow(ctx, sql, args...).Scan(
			&p.ID,
			&p.Namespace,
			&p.Name,
			&p.Owner,
			&p.IsPrivate,
			&p.IsMirror,
			&p.ParentID,
			&p.Committers,
			&p.BlockedUsers,
			&settings,
			&p.CreatedAt,
		)
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	p.Settings, err = models.ParseProjectSettings(settings)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *ProjectRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.ProjectSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	query := r.psql.Update("projects").
		Set("settings", raw).
		Where(sq.Eq{"id": id})

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
			return ErrNotFound
		}
		return nil
	})

	return wrapDBError(err)
}
