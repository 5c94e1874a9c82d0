package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/lock"
	"github.com/PlayraLive/h-ai-sub006/internal/metrics"
	"github.com/PlayraLive/h-ai-sub006/internal/telemetry"
)

// Resolver finds the one live conversation for two participants in a context,
// creating it on first contact.
type Resolver struct {
	conversations repository.ConversationRepository
	users         common.UserDirectory
	entities      common.EntityDirectory
	orders        common.OrderDirectory
	locker        lock.Locker
	specialists   *lru.Cache // order id -> specialist id

	defaultSpecialistID string
	lockTTL             time.Duration
	pageSize            int
	maxPageSize         int

	now   func() time.Time
	newID func() string
}

// NewResolver wires the resolver. users, entities and orders may be nil when
// the marketplace tables are not reachable from this service; the matching
// checks are then skipped.
func NewResolver(
	cfg *config.Config,
	conversations repository.ConversationRepository,
	users common.UserDirectory,
	entities common.EntityDirectory,
	orders common.OrderDirectory,
	locker lock.Locker,
) (*Resolver, error) {
	size := cfg.Chat.SpecialistCacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	ttl := cfg.Redis.LockTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Resolver{
		conversations:       conversations,
		users:               users,
		entities:            entities,
		orders:              orders,
		locker:              locker,
		specialists:         cache,
		defaultSpecialistID: cfg.Chat.DefaultSpecialistID,
		lockTTL:             ttl,
		pageSize:            cfg.Chat.PageSize,
		maxPageSize:         cfg.Chat.MaxPageSize,
		now:                 func() time.Time { return time.Now().UTC() },
		newID:               uuid.NewString,
	}, nil
}

// Resolve returns the conversation for (a, b, cc), creating it when none is live.
// For ai orders b may be empty; the specialist then comes from the order.
// A b or specialist id that disagrees with the order is rejected.
func (r *Resolver) Resolve(ctx context.Context, a, b string, cc common.ContextDescriptor) (id string, created bool, err error) {
	const op = "resolver.Resolve"

	ctx, span := telemetry.Start(ctx, op)
	defer func() { telemetry.End(span, err) }()

	cc = cc.Normalized()
	if err := cc.Validate(); err != nil {
		return "", false, common.InvalidContext(op, "%s", err.Error())
	}

	if cc.Kind == common.ContextAIOrder {
		specialist, err := r.specialistFor(ctx, op, cc, b)
		if err != nil {
			return "", false, err
		}
		cc.SpecialistID = specialist
		b = specialist
	}

	if err := common.ValidateParticipantPair(a, b); err != nil {
		return "", false, common.InvalidContext(op, "%s", err.Error())
	}

	key := common.ActiveKey(a, b, cc)
	defer func() {
		outcome := "existing"
		if err != nil {
			outcome = "error"
		} else if created {
			outcome = "created"
		}
		metrics.RecordResolve(cc.Kind.String(), outcome)
	}()

	conv, err := r.conversations.FindActive(ctx, key)
	if err == nil {
		if !matches(conv, a, b, cc) {
			return "", false, keyCollision(op, key)
		}
		return conv.ID, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", false, err
	}

	create := func() error {
		existing, err := r.conversations.FindActive(ctx, key)
		if err == nil {
			if !matches(existing, a, b, cc) {
				return keyCollision(op, key)
			}
			id = existing.ID
			return nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		if err := r.checkCreate(ctx, op, a, b, cc); err != nil {
			return err
		}

		conv := r.newConversation(a, b, cc, key)
		if err := r.conversations.Create(ctx, conv); err != nil {
			if !errors.Is(err, repository.ErrDuplicateConversation) {
				return err
			}
			// lost the race, the winner is live now
			winner, err := r.conversations.FindActive(ctx, key)
			if err != nil {
				return err
			}
			if !matches(winner, a, b, cc) {
				return keyCollision(op, key)
			}
			id = winner.ID
			return nil
		}
		id, created = conv.ID, true
		return nil
	}

	err = r.locker.WithLock(ctx, "conversation:"+key, r.lockTTL, create)
	if errors.Is(err, lock.ErrNotAcquired) {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("resolving without lock")
		err = create()
	}
	if err != nil {
		return "", false, err
	}

	if created {
		log.Ctx(ctx).Info().
			Str("conversation_id", id).
			Str("context", cc.Kind.String()).
			Str("entity_id", cc.EntityID).
			Msg("conversation created")
	}
	return id, created, nil
}

// specialistFor settles the specialist of an ai order. The order is
// authoritative; when it cannot be read the configured default stands in.
// Without an order directory a specialist named by the caller is taken as is.
func (r *Resolver) specialistFor(ctx context.Context, op string, cc common.ContextDescriptor, b string) (string, error) {
	claimed := cc.SpecialistID
	if claimed == "" {
		claimed = b
	} else if b != "" && b != claimed {
		return "", common.InvalidContext(op, "participant %s is not the order specialist", b)
	}

	var specialist string
	if r.orders == nil {
		specialist = claimed
	} else {
		specialist = r.orderSpecialist(ctx, cc.EntityID)
	}
	if specialist == "" {
		specialist = r.defaultSpecialistID
	}
	if specialist == "" {
		return "", common.InvalidContext(op, "no specialist for order %s", cc.EntityID)
	}
	if claimed != "" && claimed != specialist {
		return "", common.InvalidContext(op, "%s is not the specialist of order %s", claimed, cc.EntityID)
	}
	return specialist, nil
}

// orderSpecialist reads the order's specialist, empty when the read fails.
func (r *Resolver) orderSpecialist(ctx context.Context, orderID string) string {
	if v, ok := r.specialists.Get(orderID); ok {
		return v.(string)
	}
	id, err := r.orders.SpecialistFor(ctx, orderID)
	if err != nil || id == "" {
		log.Ctx(ctx).Warn().Err(err).Str("order_id", orderID).Msg("order specialist lookup failed, using default")
		return ""
	}
	r.specialists.Add(orderID, id)
	return id
}

// matches reports whether conv really is the (a, b, cc) conversation.
func matches(conv *dbmysql.Conversation, a, b string, cc common.ContextDescriptor) bool {
	got := conv.Context()
	return conv.HasParticipant(a) && conv.HasParticipant(b) &&
		got.Kind == cc.Kind && got.EntityID == cc.EntityID
}

func keyCollision(op, key string) error {
	log.Warn().Str("key", key).Msg("active key held by another conversation")
	return common.InvalidContext(op, "conversation key %s is held by another pair", key)
}

// checkCreate runs the existence checks that only matter for a new conversation.
func (r *Resolver) checkCreate(ctx context.Context, op, a, b string, cc common.ContextDescriptor) error {
	if r.users != nil {
		for _, p := range []string{a, b} {
			if cc.Kind == common.ContextAIOrder && r.vouchedSpecialist(p, cc) {
				continue
			}
			ok, err := r.users.UserExists(ctx, p)
			if err != nil {
				return asStoreError(op, err)
			}
			if !ok {
				return common.InvalidContext(op, "unknown participant %s", p)
			}
		}
	}

	if r.entities != nil && (cc.Kind == common.ContextJob || cc.Kind == common.ContextProject) {
		ok, err := r.entities.EntityExists(ctx, cc.Kind, cc.EntityID)
		if err != nil {
			return asStoreError(op, err)
		}
		if !ok {
			return common.NotFound(op, "%s %s not found", cc.Kind, cc.EntityID)
		}
	}
	return nil
}

// vouchedSpecialist reports a specialist that came from the order or the
// configured default. Specialists named by the caller are checked like users.
func (r *Resolver) vouchedSpecialist(id string, cc common.ContextDescriptor) bool {
	if id != cc.SpecialistID {
		return false
	}
	return r.orders != nil || id == r.defaultSpecialistID
}

func (r *Resolver) newConversation(a, b string, cc common.ContextDescriptor, key string) *dbmysql.Conversation {
	now := r.now()
	id := r.newID()
	return &dbmysql.Conversation{
		ID:            id,
		PairKey:       common.PairKey(a, b),
		ActiveKey:     &key,
		ContextKind:   cc.Kind,
		ContextID:     cc.EntityID,
		SpecialistID:  cc.SpecialistID,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
		Participants: []dbmysql.ConversationParticipant{
			{ConversationID: id, UserID: a, JoinedAt: now},
			{ConversationID: id, UserID: b, JoinedAt: now},
		},
	}
}

// Get loads a conversation for one of its participants.
func (r *Resolver) Get(ctx context.Context, conversationID, viewerID string) (*dbmysql.Conversation, error) {
	return loadForParticipant(ctx, r.conversations, "resolver.Get", conversationID, viewerID)
}

// List pages the viewer's live conversations, most recent activity first.
func (r *Resolver) List(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Conversation, error) {
	if err := common.ValidateParticipantID(userID); err != nil {
		return nil, common.InvalidContext("resolver.List", "%s", err.Error())
	}
	limit, offset = clampPage(limit, offset, r.pageSize, r.maxPageSize)
	return r.conversations.ListByParticipant(ctx, userID, limit, offset)
}

// Archive retires a conversation. The next Resolve for the same pair and
// context starts a new one. Archiving twice is fine.
func (r *Resolver) Archive(ctx context.Context, conversationID, participantID string) error {
	const op = "resolver.Archive"
	conv, err := loadForParticipant(ctx, r.conversations, op, conversationID, participantID)
	if err != nil {
		return err
	}
	if conv.Archived {
		return nil
	}
	if err := r.conversations.Archive(ctx, conv.ID, r.now()); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("conversation_id", conv.ID).Str("by", participantID).Msg("conversation archived")
	return nil
}
