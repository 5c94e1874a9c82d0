package notif

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/metrics"
	"github.com/PlayraLive/h-ai-sub006/internal/telemetry"
)

// Request is one notification to create.
type Request struct {
	RecipientID     string                  `json:"recipient_id" validate:"required,max=64"`
	Kind            common.NotificationKind `json:"kind" validate:"required"`
	Title           string                  `json:"title" validate:"required,max=255"`
	Body            string                  `json:"body" validate:"required"`
	RelatedEntityID string                  `json:"related_entity_id,omitempty" validate:"max=64"`
	ActionURL       string                  `json:"action_url,omitempty" validate:"omitempty,max=512"`
}

type RecipientError struct {
	RecipientID string
	Err         error
}

func (e RecipientError) Error() string {
	return fmt.Sprintf("recipient %s: %v", e.RecipientID, e.Err)
}

func (e RecipientError) Unwrap() error { return e.Err }

// FanOutResult reports a multi-recipient send. Created keeps input order
// among the successes.
type FanOutResult struct {
	Created []*dbmysql.Notification
	Failed  []RecipientError
}

// Err joins the per-recipient failures, nil when every record was created.
func (r *FanOutResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type Service struct {
	repo          dbmysql.NotificationRepository
	workers       int
	retentionDays int

	now   func() time.Time
	newID func() string
}

func NewNotificationService(cfg *config.Config, repo dbmysql.NotificationRepository) *Service {
	workers := cfg.Notification.Workers
	if workers < 1 {
		workers = 1
	}
	retention := cfg.Notification.RetentionDays
	if retention < 1 {
		retention = 30
	}
	return &Service{
		repo:          repo,
		workers:       workers,
		retentionDays: retention,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

func (s *Service) validate(op string, req Request) error {
	if err := common.ValidateStruct(req); err != nil {
		return common.InvalidContext(op, "%s", err.Error())
	}
	if !req.Kind.IsValid() {
		return common.InvalidContext(op, "unknown notification kind %q", req.Kind)
	}
	return nil
}

// Notify stores a single unread notification.
func (s *Service) Notify(ctx context.Context, req Request) (n *dbmysql.Notification, err error) {
	const op = "notifications.Notify"

	ctx, span := telemetry.Start(ctx, op)
	defer func() {
		telemetry.End(span, err)
		metrics.RecordNotification(string(req.Kind), err)
	}()

	if err := s.validate(op, req); err != nil {
		return nil, err
	}

	n = &dbmysql.Notification{
		ID:          s.newID(),
		RecipientID: req.RecipientID,
		Kind:        req.Kind,
		Title:       req.Title,
		Body:        req.Body,
		CreatedAt:   s.now(),
	}
	if req.RelatedEntityID != "" {
		related := req.RelatedEntityID
		n.RelatedEntityID = &related
	}
	if req.ActionURL != "" {
		action := req.ActionURL
		n.ActionURL = &action
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Str("notification_id", n.ID).
		Str("recipient_id", n.RecipientID).
		Str("kind", string(n.Kind)).
		Msg("notification created")
	return n, nil
}

// NotifyMany creates one record per entry of recipientIDs. Duplicated
// recipients get duplicated records. A failing recipient does not stop the others.
func (s *Service) NotifyMany(ctx context.Context, recipientIDs []string, kind common.NotificationKind, title, body string) *FanOutResult {
	reqs := make([]Request, len(recipientIDs))
	for i, id := range recipientIDs {
		reqs[i] = Request{RecipientID: id, Kind: kind, Title: title, Body: body}
	}
	return s.NotifyAll(ctx, reqs)
}

// NotifyAll fans a prepared batch out over the worker limit.
func (s *Service) NotifyAll(ctx context.Context, reqs []Request) *FanOutResult {
	created := make([]*dbmysql.Notification, len(reqs))
	failed := make([]error, len(reqs))

	g := errgroup.Group{}
	g.SetLimit(s.workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			n, err := s.Notify(ctx, req)
			if err != nil {
				failed[i] = err
				return nil
			}
			created[i] = n
			return nil
		})
	}
	_ = g.Wait()

	res := &FanOutResult{}
	for i := range reqs {
		if failed[i] != nil {
			res.Failed = append(res.Failed, RecipientError{RecipientID: reqs[i].RecipientID, Err: failed[i]})
			continue
		}
		res.Created = append(res.Created, created[i])
	}
	if len(res.Failed) > 0 {
		log.Ctx(ctx).Warn().
			Int("created", len(res.Created)).
			Int("failed", len(res.Failed)).
			Msg("notification fan-out incomplete")
	}
	return res
}

// MarkRead flips a notification to read. Already read and already removed
// notifications are left alone.
func (s *Service) MarkRead(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return common.InvalidContext("notifications.MarkRead", "notification id is required")
	}
	_, err := s.repo.MarkAsRead(ctx, notificationID, "", s.now())
	return err
}

// MarkReadFor is MarkRead restricted to the recipient's own notifications.
func (s *Service) MarkReadFor(ctx context.Context, notificationID, recipientID string) error {
	const op = "notifications.MarkReadFor"
	if notificationID == "" {
		return common.InvalidContext(op, "notification id is required")
	}

	changed, err := s.repo.MarkAsRead(ctx, notificationID, recipientID, s.now())
	if err != nil || changed {
		return err
	}

	// nothing flipped: already read, someone else's, or gone
	n, err := s.repo.ByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if n.RecipientID != recipientID {
		return common.NotAParticipant(op, "notification %s belongs to another recipient", notificationID)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if err := common.ValidateParticipantID(recipientID); err != nil {
		return 0, common.InvalidContext("notifications.MarkAllRead", "%s", err.Error())
	}
	return s.repo.MarkAllAsRead(ctx, recipientID, s.now())
}

// UnreadCount is computed from the stored rows on every call.
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if err := common.ValidateParticipantID(recipientID); err != nil {
		return 0, common.InvalidContext("notifications.UnreadCount", "%s", err.Error())
	}
	return s.repo.UnreadCount(ctx, recipientID)
}

// List pages a recipient's notifications newest first.
func (s *Service) List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*dbmysql.Notification, error) {
	if err := common.ValidateParticipantID(recipientID); err != nil {
		return nil, common.InvalidContext("notifications.List", "%s", err.Error())
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// clampPage defaults an unset limit and caps a large one.
func clampPage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Cleanup removes notifications created before now minus olderThanDays.
// A non-positive value uses the configured retention.
func (s *Service) Cleanup(ctx context.Context, olderThanDays int) (deleted int64, err error) {
	const op = "notifications.Cleanup"

	ctx, span := telemetry.Start(ctx, op)
	defer func() { telemetry.End(span, err) }()

	if olderThanDays <= 0 {
		olderThanDays = s.retentionDays
	}
	horizon := s.now().AddDate(0, 0, -olderThanDays)

	deleted, err = s.repo.DeleteOlderThan(ctx, horizon)
	if err != nil {
		return 0, err
	}
	metrics.RecordCleanup(deleted)
	log.Ctx(ctx).Info().
		Int64("deleted", deleted).
		Time("horizon", horizon).
		Msg("notification cleanup finished")
	return deleted, nil
}

// sendEach delivers template output one request at a time, collecting failures.
func (s *Service) sendEach(ctx context.Context, reqs ...Request) error {
	var errs []error
	for _, req := range reqs {
		if _, err := s.Notify(ctx, req); err != nil {
			errs = append(errs, RecipientError{RecipientID: req.RecipientID, Err: err})
		}
	}
	return errors.Join(errs...)
}
