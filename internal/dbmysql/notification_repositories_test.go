package dbmysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

var notificationColumns = []string{
	"id", "recipient_id", "kind", "title", "body", "related_entity_id", "action_url", "is_read", "read_at", "created_at",
}

func TestNotificationRepository_Create(t *testing.T) {
	tests := []struct {
		name        string
		mockSetup   func(sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "successful create",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			tt.mockSetup(mock)

			repo := NewNotificationRepository(db)
			err := repo.Create(context.Background(), &Notification{
				ID:          "n-1",
				RecipientID: "user-1",
				Kind:        common.NotificationSystem,
				Title:       "Welcome",
				Body:        "Hello",
				CreatedAt:   time.Now().UTC(),
			})

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrStoreUnavailable))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_ByID_NotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	repo := NewNotificationRepository(db)
	n, err := repo.ByID(context.Background(), "missing")

	assert.Nil(t, n)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ByRecipient(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(notificationColumns).
		AddRow("n-2", "user-1", "message_new", "New message", "hi", nil, nil, false, nil, now).
		AddRow("n-1", "user-1", "system", "Welcome", "hello", nil, nil, false, nil, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE recipient_id = ? AND is_read = ? ORDER BY created_at DESC")).
		WithArgs("user-1", false, 20).
		WillReturnRows(rows)

	repo := NewNotificationRepository(db)
	list, err := repo.ByRecipient(context.Background(), "user-1", true, 20, 0)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID)
	assert.Equal(t, common.NotificationMessageNew, list[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	tests := []struct {
		name        string
		recipientID string
		affected    int64
		wantChanged bool
	}{
		{name: "unread row flips", affected: 1, wantChanged: true},
		{name: "already read is a no-op", affected: 0, wantChanged: false},
		{name: "scoped to owner", recipientID: "user-1", affected: 1, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET `is_read`=?,`read_at`=? WHERE")).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			repo := NewNotificationRepository(db)
			changed, err := repo.MarkAsRead(context.Background(), "n-1", tt.recipientID, time.Now())

			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_MarkAllAsRead(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET `is_read`=?,`read_at`=? WHERE recipient_id = ? AND is_read = ?")).
		WithArgs(true, sqlmock.AnyArg(), "user-1", false).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	repo := NewNotificationRepository(db)
	n, err := repo.MarkAllAsRead(context.Background(), "user-1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_UnreadCount(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE recipient_id = ? AND is_read = ?")).
		WithArgs("user-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	repo := NewNotificationRepository(db)
	count, err := repo.UnreadCount(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_DeleteOlderThan(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	cutoff := time.Now().AddDate(0, 0, -30)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `notifications` WHERE created_at < ?")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	repo := NewNotificationRepository(db)
	n, err := repo.DeleteOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_UnreadCount_StoreDown(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications`")).
		WillReturnError(assert.AnError)

	repo := NewNotificationRepository(db)
	_, err := repo.UnreadCount(context.Background(), "user-1")

	assert.True(t, common.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
