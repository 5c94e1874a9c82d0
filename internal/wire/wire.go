//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/handler"
	"github.com/PlayraLive/h-ai-sub006/internal/chat/service"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/events"
	"github.com/PlayraLive/h-ai-sub006/internal/lock"
	"github.com/PlayraLive/h-ai-sub006/internal/media"
	"github.com/PlayraLive/h-ai-sub006/internal/notif"
)

var storeSet = wire.NewSet(
	ProvideStores,
	ProvideConversations,
	ProvideMessages,
	ProvideNotificationRepo,
	ProvideUsers,
	ProvideEntities,
	ProvideOrders,
	ProvideAttachmentStore,
	lock.NewLocker,
)

var serviceSet = wire.NewSet(
	service.NewResolver,
	service.NewDelivery,
	service.NewReadTracker,
	notif.NewNotificationService,
	notif.NewCleanupScheduler,
	events.NewBridge,
)

var handlerSet = wire.NewSet(
	common.NewTokenManager,
	handler.NewChatHandler,
	notif.NewNotificationHandler,
	media.NewHTTPServer,
	wire.Bind(new(media.Conversations), new(*service.Resolver)),
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		ProvideConfig,
		storeSet,
		serviceSet,
		handlerSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

// InitializeWithConfig builds the application from an already loaded config.
func InitializeWithConfig(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		storeSet,
		serviceSet,
		handlerSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
