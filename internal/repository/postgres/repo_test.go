package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrap: %w", &pq.Error{Code: "23505"})))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(gorm.ErrRecordNotFound), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}), apperrors.ErrConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestAdRepo_ListActiveBySlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "company_name", "ad_slot", "ad_type", "media_url", "redirect_url", "revenue", "view_count", "click_count", "is_active", "created_at", "updated_at"}).
		AddRow("a1", "Nike", "T20", "image", "https://cdn/a1.png", "https://nike.com", 10.5, 3, 1, true, now, now).
		AddRow("a2", "Puma", "T20", "video", "https://cdn/a2.mp4", "", 0, 0, 0, true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ads" WHERE ad_slot = $1 AND is_active = $2 ORDER BY created_at ASC, id ASC`)).
		WithArgs(entity.SlotT20, true).
		WillReturnRows(rows)

	ads, err := repo.ListActiveBySlot(context.Background(), entity.SlotT20)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "a1", ads[0].ID)
	assert.Equal(t, entity.MediaVideo, ads[1].MediaKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdRepo_RecordEvent_UnknownType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdRepo(db)

	err := repo.RecordEvent(context.Background(), &entity.AdEvent{AdID: "a1", UserID: "u1", EventType: "hover"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet(), "запросов к БД быть не должно")
}

func TestAdRepo_RecordEvent_MissingAd(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ads" SET "view_count"=view_count + $1 WHERE id = $2`)).
		WithArgs(1, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RecordEvent(context.Background(), &entity.AdEvent{AdID: "missing", UserID: "u1", EventType: entity.AdEventView})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepo_MarkReviewed_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "quiz_attempts" SET "reviewed"=$1,"updated_at"=$2 WHERE id = $3 AND user_id = $4`)).
		WithArgs(true, sqlmock.AnyArg(), "att-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.MarkReviewed(context.Background(), "u1", "att-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepo(db)

	rows := sqlmock.NewRows([]string{"status", "cnt", "amount"}).
		AddRow("pending", 2, 200).
		AddRow("completed", 3, 300).
		AddRow("failed", 1, 100)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS cnt`).WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.TotalRequests)
	assert.Equal(t, int64(600), stats.TotalAmount)
	assert.Equal(t, int64(2), stats.PendingCount)
	assert.Equal(t, int64(300), stats.CompletedAmount)
	assert.Equal(t, int64(1), stats.FailedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
