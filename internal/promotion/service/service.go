// Package service implements the promotion request lifecycle: a small state
// machine moving requests from submission to exactly one terminal outcome,
// invoking the Roblox client for the actual rank change and recording every
// decision into the request store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	promometrics "rankgate/internal/promotion/metrics"
	"rankgate/internal/promotion/models"
	"rankgate/internal/promotion/store"
	"rankgate/internal/roblox"
	dErrors "rankgate/pkg/domain-errors"
	"rankgate/pkg/platform/sentinel"
)

// AuthorityClient is the slice of the Roblox client the workflow depends on.
// Tests substitute a stub; production wires *roblox.Client, whose rank
// lookup stays off this interface because no approval policy consults it.
type AuthorityClient interface {
	FetchUser(ctx context.Context, userID int64) (*roblox.UserProfile, error)
	ApplyRank(ctx context.Context, userID, groupID, rankID int64) roblox.RankChangeOutcome
}

// SystemActor is recorded as processed_by when no actor id is supplied.
const SystemActor = "system"

type Service struct {
	store     store.Store
	authority AuthorityClient
	groupID   int64
	logger    *slog.Logger
	metrics   *promometrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *promometrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source. Tests use it to pin created_at and
// processed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st store.Store, authority AuthorityClient, groupID int64, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("request store is required")
	}
	if authority == nil {
		return nil, fmt.Errorf("authority client is required")
	}
	if groupID <= 0 {
		return nil, fmt.Errorf("group id is required")
	}

	svc := &Service{
		store:     st,
		authority: authority,
		groupID:   groupID,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SubmitInput carries the fields of a submission. Zero values are treated as
// missing.
type SubmitInput struct {
	TargetUserID    int64
	TargetRankID    int64
	RequesterUserID int64
	Event           string
}

// Submit validates the submission, resolves both usernames, and stores a new
// pending request. Validation and resolution failures happen before the
// store is touched, so a failed submission leaves no trace.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.PromotionRequest, error) {
	if err := requireField(in.TargetUserID > 0, "target_user_id"); err != nil {
		return nil, err
	}
	if err := requireField(in.TargetRankID > 0, "target_rank_id"); err != nil {
		return nil, err
	}
	if err := requireField(in.RequesterUserID > 0, "requester_user_id"); err != nil {
		return nil, err
	}
	if err := requireField(strings.TrimSpace(in.Event) != "", "event"); err != nil {
		return nil, err
	}

	var target, requester *roblox.UserProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.authority.FetchUser(gctx, in.TargetUserID)
		if err != nil {
			return wrapProfileErr(err, "target")
		}
		target = profile
		return nil
	})
	g.Go(func() error {
		profile, err := s.authority.FetchUser(gctx, in.RequesterUserID)
		if err != nil {
			return wrapProfileErr(err, "requester")
		}
		requester = profile
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req := &models.PromotionRequest{
		ID:                newRequestID(in.TargetUserID, in.TargetRankID, now),
		TargetUserID:      in.TargetUserID,
		TargetUsername:    target.Name,
		TargetRankID:      in.TargetRankID,
		RequesterUserID:   in.RequesterUserID,
		RequesterUsername: requester.Name,
		Event:             in.Event,
		Status:            models.StatusPending,
		CreatedAt:         now,
	}
	if err := s.store.Put(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store promotion request")
	}

	s.incrementSubmissions()
	s.logger.InfoContext(ctx, "promotion request submitted",
		"request_id", req.ID,
		"target_user_id", req.TargetUserID,
		"target_rank_id", req.TargetRankID,
		"requester_user_id", req.RequesterUserID,
	)
	return req, nil
}

// Approve claims the pending request and performs the rank change. The
// terminal status is approved on a successful outcome, failed otherwise;
// upstream failures are recorded, never propagated as faults. The store's
// per-id lock guarantees exactly one of two concurrent resolutions wins.
func (s *Service) Approve(ctx context.Context, requestID, approverID string) (*models.PromotionRequest, error) {
	if approverID == "" {
		approverID = SystemActor
	}

	resolved, err := s.store.Execute(ctx, requestID, func(req *models.PromotionRequest) error {
		if req.Status != models.StatusPending {
			return sentinel.ErrInvalidState
		}
		outcome := s.authority.ApplyRank(ctx, req.TargetUserID, s.groupID, req.TargetRankID)
		status := models.StatusApproved
		if !outcome.Succeeded {
			status = models.StatusFailed
		}
		req.Resolve(status, approverID, outcome.Message, s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, wrapResolutionErr(err)
	}

	s.incrementResolutions(resolved.Status)
	s.logger.InfoContext(ctx, "promotion request resolved",
		"request_id", requestID,
		"status", resolved.Status,
		"processed_by", approverID,
	)
	return resolved, nil
}

// Reject claims the pending request and records the rejection. It never
// calls the mutating external operation.
func (s *Service) Reject(ctx context.Context, requestID, rejectorID, reason string) (*models.PromotionRequest, error) {
	if rejectorID == "" {
		rejectorID = SystemActor
	}
	if reason == "" {
		reason = "No reason provided"
	}

	resolved, err := s.store.Execute(ctx, requestID, func(req *models.PromotionRequest) error {
		if req.Status != models.StatusPending {
			return sentinel.ErrInvalidState
		}
		req.Resolve(models.StatusRejected, rejectorID, "Rejected: "+reason, s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, wrapResolutionErr(err)
	}

	s.incrementResolutions(models.StatusRejected)
	s.logger.InfoContext(ctx, "promotion request rejected",
		"request_id", requestID,
		"processed_by", rejectorID,
		"reason", reason,
	)
	return resolved, nil
}

// DirectPromoteInput carries the fields of a workflow bypass. It requires
// the same identifiers as a submission minus the justification, and no
// profile resolution is performed.
type DirectPromoteInput struct {
	TargetUserID    int64
	TargetRankID    int64
	RequesterUserID int64
}

// DirectPromote performs the rank change immediately without touching the
// request store. It exists for privileged callers who do not need an audit
// trail through this service.
func (s *Service) DirectPromote(ctx context.Context, in DirectPromoteInput) (roblox.RankChangeOutcome, error) {
	if err := requireField(in.TargetUserID > 0, "target_user_id"); err != nil {
		return roblox.RankChangeOutcome{}, err
	}
	if err := requireField(in.TargetRankID > 0, "target_rank_id"); err != nil {
		return roblox.RankChangeOutcome{}, err
	}
	if err := requireField(in.RequesterUserID > 0, "requester_user_id"); err != nil {
		return roblox.RankChangeOutcome{}, err
	}

	outcome := s.authority.ApplyRank(ctx, in.TargetUserID, s.groupID, in.TargetRankID)

	s.incrementDirectPromotions(outcome.Succeeded)
	s.logger.InfoContext(ctx, "direct promotion attempted",
		"target_user_id", in.TargetUserID,
		"requester_user_id", in.RequesterUserID,
		"succeeded", outcome.Succeeded,
	)
	return outcome, nil
}

// Pending lists requests awaiting a decision, in submission order.
func (s *Service) Pending(ctx context.Context) ([]*models.PromotionRequest, error) {
	pending, err := s.store.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requests")
	}
	return pending, nil
}

// Get returns a single request by id.
func (s *Service) Get(ctx context.Context, requestID string) (*models.PromotionRequest, error) {
	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, wrapResolutionErr(err)
	}
	return req, nil
}

// newRequestID derives an id from the target user, target rank, and
// submission time, disambiguated with a uuid fragment: wall-clock seconds
// alone collide under rapid successive submissions for the same pair.
func newRequestID(targetUserID, targetRankID int64, at time.Time) string {
	return fmt.Sprintf("%d_%d_%d_%s", targetUserID, targetRankID, at.Unix(), uuid.NewString()[:8])
}

func requireField(present bool, field string) error {
	if !present {
		return dErrors.Newf(dErrors.CodeBadRequest, "missing required field: %s", field)
	}
	return nil
}

func wrapProfileErr(err error, role string) error {
	if errors.Is(err, roblox.ErrUserNotFound) {
		return dErrors.Newf(dErrors.CodeBadRequest, "%s user does not exist", role)
	}
	return dErrors.Wrap(err, dErrors.CodeUpstream, fmt.Sprintf("failed to resolve %s user profile", role))
}

func wrapResolutionErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "promotion request not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "promotion request already processed")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "request store failure")
	}
}

func (s *Service) incrementSubmissions() {
	if s.metrics != nil {
		s.metrics.IncrementSubmissions()
	}
}

func (s *Service) incrementResolutions(status models.Status) {
	if s.metrics != nil {
		s.metrics.IncrementResolutions(string(status))
	}
}

func (s *Service) incrementDirectPromotions(succeeded bool) {
	if s.metrics != nil {
		s.metrics.IncrementDirectPromotions(succeeded)
	}
}
