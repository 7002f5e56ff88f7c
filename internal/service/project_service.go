package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pagure/internal/models"
	"pagure/internal/policy"
	"pagure/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	projectRepo ProjectRepository
	trManager   TxManager
	log         *zap.Logger
}

func NewProjectService(projectRepo ProjectRepository, trManager TxManager, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		trManager:   trManager,
		log:         log,
	}
}

// Create registers an existing repository as a project owned by actor unless
// an owner is given.
func (s *ProjectService) Create(ctx context.Context, actor string, p *models.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || strings.ContainsAny(p.Name, "/\\") || strings.Contains(p.Namespace, "..") {
		return fmt.Errorf("%w: invalid project name", ErrInvalidInput)
	}
	if p.Owner == "" {
		p.Owner = actor
	}
	if p.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		if p.ParentID != nil {
			parent, err := s.projectRepo.GetByID(ctx, *p.ParentID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: parent project not found", ErrInvalidInput)
				}
				return err
			}
			p.Namespace = parent.Namespace
			p.Name = parent.Name
		}

		return s.projectRepo.Create(ctx, p)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("project already exists",
				zap.String("project", p.FullName()),
			)
			return ErrAlreadyExists
		}
		if !errors.Is(err, ErrInvalidInput) {
			s.log.Error("failed to create project",
				zap.Error(err),
				zap.String("project", p.FullName()),
			)
		}
		return err
	}

	s.log.Info("project created",
		zap.String("project_id", p.ID.String()),
		zap.String("project", p.FullName()),
		zap.String("owner", p.Owner),
	)

	return nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID, actor string) (*models.Project, error) {
	return loadVisibleProject(ctx, s.projectRepo, id, actor)
}

// UpdateSettings replaces the project's settings; only committers may change them.
func (s *ProjectService) UpdateSettings(ctx context.Context, id uuid.UUID, actor string, settings models.ProjectSettings) (*models.Project, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var project *models.Project
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		project, err = loadVisibleProject(ctx, s.projectRepo, id, actor)
		if err != nil {
			return err
		}
		if !project.IsCommitter(actor) {
			return denied(policy.ReasonNotCommitter)
		}

		if err := s.projectRepo.UpdateSettings(ctx, id, settings); err != nil {
			return err
		}
		project.Settings = settings
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrDenied) && !errors.Is(err, ErrNotFound) {
			s.log.Error("failed to update settings",
				zap.Error(err),
				zap.String("project_id", id.String()),
			)
		}
		return nil, err
	}

	s.log.Info("project settings updated",
		zap.String("project_id", id.String()),
		zap.String("actor", actor),
	)

	return project, nil
}
