package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

func TestMessageRepository_Append(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(sqlmock.Sqlmock)
		wantKind  common.ErrorKind
	}{
		{
			name: "message, summary and counters in one transaction",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `messages`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `conversations` SET")).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta(
					"UPDATE `conversation_participants` SET `unread_count`=unread_count + ? WHERE conversation_id = ? AND user_id <> ?")).
					WithArgs(1, "conv-1", "user-a").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "counter failure rolls back the message",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `messages`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `conversations` SET")).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `conversation_participants`")).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantKind: common.KindStoreUnavailable,
		},
		{
			name: "insert failure touches nothing else",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `messages`")).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantKind: common.KindStoreUnavailable,
		},
		{
			name: "missing conversation",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `messages`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `conversations` SET")).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantKind: common.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			tt.mockSetup(mock)

			repo := NewMessageRepository(db)
			err := repo.Append(context.Background(), &dbmysql.Message{
				ID:             "msg-1",
				ConversationID: "conv-1",
				SenderID:       "user-a",
				Kind:           common.MessageText,
				Body:           "hello",
				CreatedAt:      time.Now().UTC(),
			}, "hello")

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, common.KindOf(err))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageRepository_ListByConversation(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "seq", "conversation_id", "sender_id", "kind", "body", "payload", "created_at", "edited_at", "deleted_at"}).
		AddRow("m-2", 2, "conv-1", "user-b", "text", "second", nil, now, nil, nil).
		AddRow("m-1", 1, "conv-1", "user-a", "text", "first", nil, now, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `messages` WHERE conversation_id = ? ORDER BY created_at DESC, seq DESC LIMIT ?")).
		WithArgs("conv-1", 50).
		WillReturnRows(rows)

	repo := NewMessageRepository(db)
	messages, err := repo.ListByConversation(context.Background(), "conv-1", 50, 0)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "second", messages[0].Body)
	assert.Equal(t, "first", messages[1].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_FindActive(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock, cleanup := setupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `conversations` WHERE active_key = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewConversationRepository(db).FindActive(context.Background(), "a|b|none|")
		assert.True(t, errors.Is(err, common.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found with participants", func(t *testing.T) {
		db, mock, cleanup := setupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `conversations` WHERE active_key = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "pair_key", "active_key", "context_kind"}).
				AddRow("conv-1", "a|b", "a|b|none|", "none"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `conversation_participants` WHERE `conversation_participants`.`conversation_id` = ?")).
			WithArgs("conv-1").
			WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "user_id", "unread_count"}).
				AddRow("conv-1", "a", 0).
				AddRow("conv-1", "b", 3))

		conv, err := NewConversationRepository(db).FindActive(context.Background(), "a|b|none|")
		require.NoError(t, err)
		assert.Equal(t, "conv-1", conv.ID)
		assert.Equal(t, map[string]int{"a": 0, "b": 3}, conv.UnreadCounts())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConversationRepository_Create_Duplicate(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `conversations`")).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	key := "a|b|job|j1"
	err := NewConversationRepository(db).Create(context.Background(), &dbmysql.Conversation{
		ID:        "conv-2",
		PairKey:   "a|b",
		ActiveKey: &key,
		Participants: []dbmysql.ConversationParticipant{
			{UserID: "a"}, {UserID: "b"},
		},
	})

	assert.ErrorIs(t, err, ErrDuplicateConversation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_Create(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `conversations`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `conversation_participants`")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	conv := &dbmysql.Conversation{
		ID:      "conv-3",
		PairKey: "a|b",
		Participants: []dbmysql.ConversationParticipant{
			{UserID: "a"}, {UserID: "b"},
		},
	}
	err := NewConversationRepository(db).Create(context.Background(), conv)

	require.NoError(t, err)
	assert.Equal(t, "conv-3", conv.Participants[1].ConversationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ResetUnread(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `conversation_participants` SET `unread_count`=? WHERE conversation_id = ? AND user_id = ?")).
		WithArgs(0, "conv-1", "user-b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewConversationRepository(db).ResetUnread(context.Background(), "conv-1", "user-b")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_UnreadConversationIDs(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT `conversation_id` FROM `conversation_participants` WHERE user_id = ? AND unread_count > ?")).
		WithArgs("user-b", 0).
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id"}).AddRow("conv-1").AddRow("conv-7"))

	ids, err := NewConversationRepository(db).UnreadConversationIDs(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"conv-1", "conv-7"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_UnreadTotal(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(SUM(conversation_participants.unread_count), 0) FROM `conversation_participants` " +
			"JOIN conversations ON conversations.id = conversation_participants.conversation_id " +
			"WHERE conversation_participants.user_id = ? AND conversations.archived = ?")).
		WithArgs("user-b", false).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(4))

	total, err := NewConversationRepository(db).UnreadTotal(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_Archive(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"archives and frees the key", 1, nil},
		{"unknown conversation", 0, common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(
				"UPDATE `conversations` SET `active_key`=?,`archived`=?,`updated_at`=? WHERE id = ?")).
				WithArgs(nil, true, sqlmock.AnyArg(), "conv-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := NewConversationRepository(db).Archive(context.Background(), "conv-1", time.Now())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
