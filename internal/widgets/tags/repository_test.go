package tags

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

func newMockRepo(t *testing.T) (TagRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTagRepository(db), mock
}

var tagCols = []string{"id", "name", "color", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags")).
		WithArgs("t1", "VIP", DefaultColor, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &Tag{ID: "t1", Name: "VIP", Color: DefaultColor, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'VIP' for key 'uq_tags_name'"})

	err := repo.Create(context.Background(), &Tag{ID: "t1", Name: "VIP"})
	assert.True(t, apperror.IsType(err, apperror.TypeConflict))
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tags WHERE id = ?")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(tagCols).
			AddRow("t2", "Lead", "#00ff00", now, now).
			AddRow("t1", "VIP", "#ff0000", now, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "VIP", got[1].Name)
}

func TestRepository_Search_EscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) LIKE ?")).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows(tagCols))

	got, err := repo.Search(context.Background(), "50%")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tags SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &Tag{ID: "gone", Name: "x"})
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tags WHERE id = ?")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tags WHERE id = ?")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "t1"))
	assert.True(t, apperror.IsType(repo.Delete(context.Background(), "t1"), apperror.TypeNotFound))
}

func TestRepository_MissingIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE id IN (?, ?, ?)")).
		WithArgs("a", "b", "c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b"))

	missing, err := repo.MissingIDs(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, missing)

	none, err := repo.MissingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
