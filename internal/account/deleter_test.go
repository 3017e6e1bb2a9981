package account

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flicklist/internal/avatar"
	"flicklist/internal/models"
	"flicklist/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func setupDeleter(t *testing.T, db *gorm.DB) (*Deleter, *avatar.Manager, string) {
	t.Helper()
	storageDir := t.TempDir()
	avatars, err := avatar.NewManager(storageDir, repository.NewUserRepository(db))
	require.NoError(t, err)
	return NewDeleter(db, avatars), avatars, storageDir
}

func TestDeleteRemovesUserWatchlistAndAvatar(t *testing.T) {
	db := setupTestDB(t)
	deleter, avatars, storageDir := setupDeleter(t, db)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	watchlist := repository.NewWatchlistRepository(db)

	user, err := users.CreateCredentialed(ctx, "bob", "secret1")
	require.NoError(t, err)
	_, _, err = watchlist.Add(ctx, user.ID, "tt001", "Inception", "poster.jpg")
	require.NoError(t, err)
	_, _, err = watchlist.Add(ctx, user.ID, "tt002", "Memento", "poster2.jpg")
	require.NoError(t, err)

	_, err = avatars.Replace(ctx, user.ID, []byte("fake image"), ".png")
	require.NoError(t, err)
	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AvatarURL)
	avatarPath := filepath.Join(storageDir, filepath.FromSlash(*stored.AvatarURL))
	_, err = os.Stat(avatarPath)
	require.NoError(t, err)

	require.NoError(t, deleter.Delete(ctx, user.ID))

	_, err = users.FindByID(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := watchlist.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = os.Stat(avatarPath)
	require.True(t, os.IsNotExist(err))
}

func TestDeleteMissingUser(t *testing.T) {
	db := setupTestDB(t)
	deleter, _, _ := setupDeleter(t, db)

	err := deleter.Delete(context.Background(), 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// A failure between the watchlist delete and the user delete must leave
// both exactly as they were. The failure is injected with a sqlite
// trigger that aborts any delete on users.
func TestDeleteRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	deleter, _, _ := setupDeleter(t, db)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	watchlist := repository.NewWatchlistRepository(db)

	user, err := users.CreateCredentialed(ctx, "bob", "secret1")
	require.NoError(t, err)
	_, _, err = watchlist.Add(ctx, user.ID, "tt001", "Inception", "poster.jpg")
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		CREATE TRIGGER block_user_delete BEFORE DELETE ON users
		BEGIN
			SELECT RAISE(ABORT, 'forced failure');
		END`).Error)

	err = deleter.Delete(ctx, user.ID)
	require.Error(t, err)

	// Nothing is partially visible: the user and all watchlist rows
	// survived the rollback.
	_, err = users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	entries, err := watchlist.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// The same rollback contract, verified at the SQL level: a failing user
// delete must produce a rollback, never a commit.
func TestDeleteIssuesRollbackOnUserDeleteError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:               logger.Discard,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	avatars, err := avatar.NewManager(t.TempDir(), repository.NewUserRepository(db))
	require.NoError(t, err)
	deleter := NewDeleter(db, avatars)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "avatar_url"}).
			AddRow(1, "bob", "", nil))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "watchlist"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "users"`).
		WillReturnError(errors.New("forced failure"))
	mock.ExpectRollback()

	err = deleter.Delete(context.Background(), 1)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
