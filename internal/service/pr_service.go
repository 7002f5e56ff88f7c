//go:generate mockgen -source=pr_service.go -destination=../mocks/pr_service.go -package=mocks .

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pagure/internal/gitrepo"
	"pagure/internal/merge"
	"pagure/internal/models"
	"pagure/internal/notify"
	"pagure/internal/policy"
	"pagure/internal/repository"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ReasonFastForwardOnly = "non fast-forward merges disabled"

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings models.ProjectSettings) error
}

type PRRepository interface {
	Create(ctx context.Context, pr *models.PullRequest) error

	// GetByID loads the pull request with its comments.
	GetByID(ctx context.Context, id uuid.UUID) (*models.PullRequest, error)

	// GetByIDForUpdate also locks the row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PullRequest, error)

	ListByProject(ctx context.Context, projectID uuid.UUID, status *models.PRStatus) ([]*models.PullRequest, error)

	UpdateMergeStatus(ctx context.Context, id uuid.UUID, status models.MergeStatus, sourceTip, targetTip string) error

	// MarkMerged and MarkClosed only touch open pull requests.
	MarkMerged(ctx context.Context, id uuid.UUID, actor, mergeCommit string, at time.Time) error
	MarkClosed(ctx context.Context, id uuid.UUID, actor string, at time.Time) error

	Assign(ctx context.Context, id uuid.UUID, assignee *string) error

	AddComment(ctx context.Context, c *models.Comment) error

	AddFlag(ctx context.Context, f *models.Flag) error
	ListFlags(ctx context.Context, prID uuid.UUID) ([]*models.Flag, error)
}

// RepoStore opens project repositories by their path below the repositories root.
type RepoStore interface {
	Open(rel string) (*gitrepo.Repository, error)
}

type Publisher interface {
	Dispatch(topic string, payload any)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxManagerStub struct{}

func (TxManagerStub) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Committer signs merge commits.
type Committer struct {
	Name  string
	Email string
}

type PRService struct {
	projectRepo ProjectRepository
	prRepo      PRRepository
	repos       RepoStore
	publisher   Publisher

	trManager TxManager
	committer Committer
	now       func() time.Time

	log *zap.Logger
}

func NewPRService(
	projectRepo ProjectRepository,
	prRepo PRRepository,
	repos RepoStore,
	publisher Publisher,
	trManager TxManager,
	committer Committer,
	log *zap.Logger,
) *PRService {
	return &PRService{
		projectRepo: projectRepo,
		prRepo:      prRepo,
		repos:       repos,
		publisher:   publisher,
		trManager:   trManager,
		committer:   committer,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

type CreatePRInput struct {
	ProjectID       uuid.UUID
	SourceProjectID *uuid.UUID
	SourceBranch    string
	TargetBranch    string
	Title           string
}

// MergeResult describes a successful merge.
type MergeResult struct {
	PullRequest *models.PullRequest
	Kind        merge.Kind
	Commit      string
}

func (s *PRService) CreatePR(ctx context.Context, actor string, in CreatePRInput) (*models.PullRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.SourceBranch == "" || in.TargetBranch == "" {
		return nil, fmt.Errorf("%w: title, source and target branch are required", ErrInvalidInput)
	}
	for _, b := range []string{in.SourceBranch, in.TargetBranch} {
		if err := gitrepo.ValidateBranchName(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	project, err := s.visibleProject(ctx, in.ProjectID, actor)
	if err != nil {
		return nil, err
	}

	if !project.Settings.PullRequests {
		return nil, denied(policy.ReasonPullRequestsDisabled)
	}
	if project.IsBlocked(actor) {
		return nil, denied(policy.ReasonBlocked)
	}

	sourceProject := project
	if in.SourceProjectID != nil && *in.SourceProjectID != project.ID {
		sourceProject, err = s.visibleProject(ctx, *in.SourceProjectID, actor)
		if err != nil {
			return nil, err
		}
		if sourceProject.ParentID == nil || *sourceProject.ParentID != project.ID {
			return nil, fmt.Errorf("%w: source project is not a fork of the target project", ErrInvalidInput)
		}
	} else {
		in.SourceProjectID = nil
		if in.SourceBranch == in.TargetBranch {
			return nil, fmt.Errorf("%w: source and target branch are the same", ErrInvalidInput)
		}
	}

	if err := s.checkBranch(project, in.TargetBranch); err != nil {
		return nil, err
	}
	if err := s.checkBranch(sourceProject, in.SourceBranch); err != nil {
		return nil, err
	}

	pr := &models.PullRequest{
		ID:              uuid.New(),
		ProjectID:       project.ID,
		SourceProjectID: in.SourceProjectID,
		SourceBranch:    in.SourceBranch,
		TargetBranch:    in.TargetBranch,
		Title:           in.Title,
		Author:          actor,
		Status:          models.PRStatusOpen,
		CreatedAt:       s.now(),
		Comments:        []*models.Comment{},
	}

	err = s.trManager.Do(ctx, func(ctx context.Context) error {
		return s.prRepo.Create(ctx, pr)
	})
	if err != nil {
		s.log.Error("failed to create PR",
			zap.Error(err),
			zap.String("project_id", project.ID.String()),
		)
		return nil, err
	}

	s.log.Info("PR created",
		zap.String("pr_id", pr.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("actor", actor),
	)

	s.publisher.Dispatch(notify.TopicPRNew, newPREvent(project, pr, actor))

	return pr, nil
}

func (s *PRService) checkBranch(project *models.Project, branch string) error {
	repo, err := s.repos.Open(project.RelativePath())
	if err != nil {
		s.log.Error("failed to open repository",
			zap.Error(err),
			zap.String("project_id", project.ID.String()),
		)
		return err
	}

	if _, err := repo.ResolveBranch(branch); err != nil {
		if errors.Is(err, gitrepo.ErrInvalidBranch) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if errors.Is(err, gitrepo.ErrUnknownRef) {
			return fmt.Errorf("%w: branch %q not found in %s", ErrInvalidInput, branch, project.FullName())
		}
		return err
	}
	return nil
}

func (s *PRService) GetPR(ctx context.Context, id uuid.UUID, actor string) (*models.PullRequest, error) {
	pr, err := s.prRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("failed to get PR",
				zap.Error(err),
				zap.String("pr_id", id.String()),
			)
		}
		return nil, err
	}

	if _, err := s.visibleProject(ctx, pr.ProjectID, actor); err != nil {
		return nil, err
	}

	return pr, nil
}

func (s *PRService) ListPRs(ctx context.Context, projectID uuid.UUID, status *models.PRStatus, actor string) ([]*models.PullRequest, error) {
	if _, err := s.visibleProject(ctx, projectID, actor); err != nil {
		return nil, err
	}

	prs, err := s.prRepo.ListByProject(ctx, projectID, status)
	if err != nil {
		s.log.Error("failed to list PRs",
			zap.Error(err),
			zap.String("project_id", projectID.String()),
		)
		return nil, err
	}

	return prs, nil
}

// MergeStatus reports how the pull request would merge right now. The stored
// value is reused while both tips are unchanged; it is never trusted by AttemptMerge.
func (s *PRService) MergeStatus(ctx context.Context, id uuid.UUID, actor string) (models.MergeStatus, error) {
	pr, err := s.GetPR(ctx, id, actor)
	if err != nil {
		return "", err
	}
	if !pr.IsOpen() {
		return "", denied(policy.ReasonNotOpen)
	}

	project, err := s.projectRepo.GetByID(ctx, pr.ProjectID)
	if err != nil {
		return "", err
	}

	repo, source, target, err := s.resolveTips(ctx, project, pr, false)
	if err != nil {
		return "", err
	}

	if status, ok := pr.CachedMergeStatus(source.String(), target.String()); ok {
		return status, nil
	}

	out, err := merge.Evaluate(repo, source, target, merge.Options{AlwaysMerge: project.Settings.AlwaysMerge})
	if err != nil {
		s.log.Error("failed to evaluate merge",
			zap.Error(err),
			zap.String("pr_id", id.String()),
		)
		return "", err
	}

	status := models.MergeStatus(out.Kind)
	s.storeMergeStatus(ctx, pr.ID, status, source, target)

	return status, nil
}

func (s *PRService) storeMergeStatus(ctx context.Context, id uuid.UUID, status models.MergeStatus, source, target plumbing.Hash) {
	if err := s.prRepo.UpdateMergeStatus(ctx, id, status, source.String(), target.String()); err != nil {
		s.log.Warn("failed to cache merge status",
			zap.Error(err),
			zap.String("pr_id", id.String()),
		)
	}
}

// AttemptMerge merges the pull request into its target branch on behalf of actor.
// A lost race on the target branch is retried once against the new tips.
func (s *PRService) AttemptMerge(ctx context.Context, id uuid.UUID, actor string) (*MergeResult, error) {
	result, err := s.attemptMerge(ctx, id, actor)
	if errors.Is(err, gitrepo.ErrRefUpdateConflict) {
		s.log.Warn("target branch moved during merge, retrying",
			zap.String("pr_id", id.String()),
		)
		result, err = s.attemptMerge(ctx, id, actor)
	}
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, result.PullRequest.ProjectID)
	if err != nil {
		s.log.Warn("failed to load project for notification",
			zap.Error(err),
			zap.String("pr_id", id.String()),
		)
		return result, nil
	}

	s.publisher.Dispatch(notify.TopicPRClosed, newClosedEvent(project, result.PullRequest, actor, true))

	return result, nil
}

func (s *PRService) attemptMerge(ctx context.Context, id uuid.UUID, actor string) (*MergeResult, error) {
	var (
		result    *MergeResult
		conflicts *merge.Outcome
	)

	txErr := s.trManager.Do(ctx, func(ctx context.Context) error {
		pr, err := s.prRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		project, err := s.visibleProject(ctx, pr.ProjectID, actor)
		if err != nil {
			return err
		}

		if verdict := policy.CheckCanMerge(project, pr, actor); !verdict.Allowed {
			s.log.Warn("merge denied",
				zap.String("pr_id", id.String()),
				zap.String("actor", actor),
				zap.String("reason", verdict.Reason),
			)
			return denied(verdict.Reason)
		}

		repo, source, target, err := s.resolveTips(ctx, project, pr, true)
		if err != nil {
			return err
		}

		out, err := merge.Evaluate(repo, source, target, merge.Options{AlwaysMerge: project.Settings.AlwaysMerge})
		if err != nil {
			return err
		}

		switch out.Kind {
		case merge.Conflicting:
			conflicts = out
			return &merge.ConflictError{Paths: out.Conflicts}
		case merge.MergeCommit:
			if project.Settings.DisableNonFastForward {
				return denied(ReasonFastForwardOnly)
			}
		}

		tip, err := merge.Apply(repo, out, merge.CommitInfo{
			Branch:  pr.TargetBranch,
			Message: fmt.Sprintf("Merge #%s `%s`", pr.ID, pr.Title),
			Committer: object.Signature{
				Name:  s.committer.Name,
				Email: s.committer.Email,
				When:  s.now(),
			},
		})
		if err != nil {
			return err
		}

		now := s.now()
		if err := s.prRepo.MarkMerged(ctx, pr.ID, actor, tip.String(), now); err != nil {
			if errors.Is(err, repository.ErrStateChanged) {
				return denied(policy.ReasonNotOpen)
			}
			s.log.Error("branch updated but PR state not saved",
				zap.Error(err),
				zap.String("pr_id", id.String()),
				zap.String("merge_commit", tip.String()),
			)
			return err
		}

		pr.Status = models.PRStatusMerged
		pr.ClosedBy = &actor
		pr.ClosedAt = &now
		commit := tip.String()
		pr.MergeCommit = &commit

		result = &MergeResult{PullRequest: pr, Kind: out.Kind, Commit: commit}
		return nil
	})

	if txErr != nil {
		if conflicts != nil {
			s.storeMergeStatus(ctx, id, models.MergeStatusConflicts, conflicts.Source, conflicts.Target)
			s.log.Info("merge blocked by conflicts",
				zap.String("pr_id", id.String()),
				zap.Strings("paths", conflicts.Conflicts),
			)
		} else if !errors.Is(txErr, ErrDenied) && !errors.Is(txErr, ErrNotFound) && !errors.Is(txErr, gitrepo.ErrRefUpdateConflict) {
			s.log.Error("failed to merge PR",
				zap.Error(txErr),
				zap.String("pr_id", id.String()),
			)
		}
		return nil, txErr
	}

	s.log.Info("PR merged",
		zap.String("pr_id", id.String()),
		zap.String("actor", actor),
		zap.String("kind", string(result.Kind)),
		zap.String("merge_commit", result.Commit),
	)

	return result, nil
}

// resolveTips opens the target repository and reads both tips. Objects of fork
// branches are first copied into the target repository; with pin set the copy
// is also recorded under refs/pull/<id>/head.
func (s *PRService) resolveTips(ctx context.Context, project *models.Project, pr *models.PullRequest, pin bool) (*gitrepo.Repository, plumbing.Hash, plumbing.Hash, error) {
	repo, err := s.repos.Open(project.RelativePath())
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
	}

	target, err := repo.ResolveBranch(pr.TargetBranch)
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
	}

	if !pr.IsFromFork() {
		source, err := repo.ResolveBranch(pr.SourceBranch)
		if err != nil {
			return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
		}
		return repo, source, target, nil
	}

	fork, err := s.projectRepo.GetByID(ctx, *pr.SourceProjectID)
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, fmt.Errorf("load source project: %w", err)
	}
	forkRepo, err := s.repos.Open(fork.RelativePath())
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
	}
	source, err := forkRepo.ResolveBranch(pr.SourceBranch)
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
	}

	if pin {
		err = repo.Import(forkRepo, source, pullRef(pr.ID), target)
	} else {
		err = repo.CopyObjects(forkRepo, source, target)
	}
	if err != nil {
		return nil, plumbing.ZeroHash, plumbing.ZeroHash, err
	}

	return repo, source, target, nil
}

func pullRef(id uuid.UUID) plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/pull/" + id.String() + "/head")
}

// Close closes an open pull request without merging it.
func (s *PRService) Close(ctx context.Context, id uuid.UUID, actor string) (*models.PullRequest, error) {
	var (
		pr      *models.PullRequest
		project *models.Project
	)

	txErr := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		pr, err = s.prRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		project, err = s.visibleProject(ctx, pr.ProjectID, actor)
		if err != nil {
			return err
		}

		if verdict := policy.CheckCanClose(project, pr, actor); !verdict.Allowed {
			s.log.Warn("close denied",
				zap.String("pr_id", id.String()),
				zap.String("actor", actor),
				zap.String("reason", verdict.Reason),
			)
			return denied(verdict.Reason)
		}

		now := s.now()
		if err := s.prRepo.MarkClosed(ctx, id, actor, now); err != nil {
			if errors.Is(err, repository.ErrStateChanged) {
				return denied(policy.ReasonNotOpen)
			}
			return err
		}

		pr.Status = models.PRStatusClosed
		pr.ClosedBy = &actor
		pr.ClosedAt = &now
		return nil
	})

	if txErr != nil {
		if !errors.Is(txErr, ErrDenied) && !errors.Is(txErr, ErrNotFound) {
			s.log.Error("failed to close PR",
				zap.Error(txErr),
				zap.String("pr_id", id.String()),
			)
		}
		return nil, txErr
	}

	s.log.Info("PR closed",
		zap.String("pr_id", id.String()),
		zap.String("actor", actor),
	)

	s.publisher.Dispatch(notify.TopicPRClosed, newClosedEvent(project, pr, actor, false))

	return pr, nil
}

// AddComment records a comment. Without an explicit score the vote is read from the text.
func (s *PRService) AddComment(ctx context.Context, id uuid.UUID, actor, text string, score *int) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment is empty", ErrInvalidInput)
	}

	vote := models.VoteFromText(text)
	if score != nil {
		if *score < -1 || *score > 1 {
			return nil, fmt.Errorf("%w: score must be -1, 0 or 1", ErrInvalidInput)
		}
		vote = *score
	}

	pr, err := s.prRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.visibleProject(ctx, pr.ProjectID, actor)
	if err != nil {
		return nil, err
	}
	if project.IsBlocked(actor) {
		return nil, denied(policy.ReasonBlocked)
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		PRID:      pr.ID,
		Author:    actor,
		Text:      text,
		Score:     vote,
		CreatedAt: s.now(),
	}

	if err := s.prRepo.AddComment(ctx, comment); err != nil {
		s.log.Error("failed to add comment",
			zap.Error(err),
			zap.String("pr_id", id.String()),
		)
		return nil, err
	}

	s.publisher.Dispatch(notify.TopicPRComment, newCommentEvent(project, pr, comment))

	return comment, nil
}

// Assign sets the assignee of an open pull request; a nil or empty assignee clears it.
func (s *PRService) Assign(ctx context.Context, id uuid.UUID, actor string, assignee *string) (*models.PullRequest, error) {
	if assignee != nil && strings.TrimSpace(*assignee) == "" {
		assignee = nil
	}

	var (
		pr      *models.PullRequest
		project *models.Project
	)

	txErr := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		pr, err = s.prRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		project, err = s.visibleProject(ctx, pr.ProjectID, actor)
		if err != nil {
			return err
		}

		switch {
		case project.IsBlocked(actor):
			return denied(policy.ReasonBlocked)
		case !project.IsCommitter(actor):
			return denied(policy.ReasonNotCommitter)
		case !pr.IsOpen():
			return denied(policy.ReasonNotOpen)
		}

		if err := s.prRepo.Assign(ctx, id, assignee); err != nil {
			return err
		}
		pr.Assignee = assignee
		return nil
	})

	if txErr != nil {
		if !errors.Is(txErr, ErrDenied) && !errors.Is(txErr, ErrNotFound) {
			s.log.Error("failed to assign PR",
				zap.Error(txErr),
				zap.String("pr_id", id.String()),
			)
		}
		return nil, txErr
	}

	s.log.Info("PR assigned",
		zap.String("pr_id", id.String()),
		zap.String("actor", actor),
	)

	if assignee != nil {
		s.publisher.Dispatch(notify.TopicPRAssigned, newAssignedEvent(project, pr, actor))
	}

	return pr, nil
}

type FlagInput struct {
	UID      string
	Username string
	Status   models.FlagStatus
	Percent  *int
	Comment  string
	URL      string
}

// AddFlag attaches a CI status to the pull request, replacing the flag with the same uid.
func (s *PRService) AddFlag(ctx context.Context, id uuid.UUID, actor string, in FlagInput) (*models.Flag, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown flag status %q", ErrInvalidInput, in.Status)
	}
	if in.Percent != nil && (*in.Percent < 0 || *in.Percent > 100) {
		return nil, fmt.Errorf("%w: percent must be between 0 and 100", ErrInvalidInput)
	}
	if in.UID == "" {
		in.UID = uuid.NewString()
	}
	if in.Username == "" {
		in.Username = actor
	}

	pr, err := s.prRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.visibleProject(ctx, pr.ProjectID, actor)
	if err != nil {
		return nil, err
	}
	if project.IsBlocked(actor) {
		return nil, denied(policy.ReasonBlocked)
	}

	flag := &models.Flag{
		PRID:     pr.ID,
		UID:      in.UID,
		Username: in.Username,
		Status:   in.Status,
		Percent:  in.Percent,
		Comment:  in.Comment,
		URL:      in.URL,
	}

	if err := s.prRepo.AddFlag(ctx, flag); err != nil {
		s.log.Error("failed to add flag",
			zap.Error(err),
			zap.String("pr_id", id.String()),
			zap.String("uid", in.UID),
		)
		return nil, err
	}

	s.publisher.Dispatch(notify.TopicPRFlagAdded, newFlagEvent(project, pr, flag))

	return flag, nil
}

func (s *PRService) ListFlags(ctx context.Context, id uuid.UUID, actor string) ([]*models.Flag, error) {
	pr, err := s.GetPR(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.prRepo.ListFlags(ctx, pr.ID)
}

// visibleProject loads the project, hiding private projects from non-committers.
func (s *PRService) visibleProject(ctx context.Context, id uuid.UUID, actor string) (*models.Project, error) {
	return loadVisibleProject(ctx, s.projectRepo, id, actor)
}

func loadVisibleProject(ctx context.Context, repo ProjectRepository, id uuid.UUID, actor string) (*models.Project, error) {
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.CanView(actor) {
		return nil, ErrNotFound
	}
	return project, nil
}
