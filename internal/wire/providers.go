package wire

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/handler"
	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/chat/service"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmongo"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/events"
	"github.com/PlayraLive/h-ai-sub006/internal/media"
	"github.com/PlayraLive/h-ai-sub006/internal/notif"
)

type Application struct {
	Config        *config.Config
	Stores        *Stores
	Tokens        *common.TokenManager
	Resolver      *service.Resolver
	Delivery      *service.Delivery
	Tracker       *service.ReadTracker
	Notifications *notif.Service
	Scheduler     *notif.CleanupScheduler
	Bridge        *events.Bridge
	ChatHandler   *handler.ChatHandler
	NotifHandler  *notif.NotificationHandler
	Media         *media.HTTPServer
}

// Stores groups the repositories of the selected store driver.
// The directories stay nil on the memory driver.
type Stores struct {
	DB            *gorm.DB
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Notifications dbmysql.NotificationRepository
	Users         common.UserDirectory
	Entities      common.EntityDirectory
	Orders        common.OrderDirectory
}

// Ping reports whether the backing database answers.
func (s *Stores) Ping(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func ProvideStores(cfg *config.Config) (*Stores, func(), error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		chat := repository.NewMemoryStore()
		return &Stores{
			Conversations: chat.Conversations(),
			Messages:      chat.Messages(),
			Notifications: notif.NewMemoryRepository(),
		}, func() {}, nil

	case "", "mysql":
		// NewMySQL also migrates when MYSQL_AUTO_MIGRATE is set.
		db, err := dbmysql.NewMySQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		dir := dbmysql.NewDirectory(db)
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &Stores{
			DB:            db,
			Conversations: repository.NewConversationRepository(db),
			Messages:      repository.NewMessageRepository(db),
			Notifications: dbmysql.NewNotificationRepository(db),
			Users:         dir,
			Entities:      dir,
			Orders:        dir,
		}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
}

func ProvideConversations(s *Stores) repository.ConversationRepository { return s.Conversations }
func ProvideMessages(s *Stores) repository.MessageRepository           { return s.Messages }
func ProvideNotificationRepo(s *Stores) dbmysql.NotificationRepository { return s.Notifications }
func ProvideUsers(s *Stores) common.UserDirectory                      { return s.Users }
func ProvideEntities(s *Stores) common.EntityDirectory                 { return s.Entities }
func ProvideOrders(s *Stores) common.OrderDirectory                    { return s.Orders }

// ProvideAttachmentStore returns nil when MongoDB is disabled; uploads are
// then rejected and downloads answer 404.
func ProvideAttachmentStore(cfg *config.Config) (common.AttachmentStore, func(), error) {
	client, cleanup, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, cleanup, nil
	}
	return dbmongo.NewAttachmentStorage(client, cfg), cleanup, nil
}
