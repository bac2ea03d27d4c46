package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

func TestSelectionListByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selected_classes WHERE email = $1 ORDER BY created_at DESC")).
		WithArgs("a@x.com").
		WillReturnRows(pendingSelectionRows(nil))

	selections, err := repo.ListByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.False(t, selections[0].Paid())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM selected_classes WHERE email = $1 AND class_name = $2)")).
		WithArgs("a@x.com", "Algebra").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "a@x.com", "Algebra")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSelectionCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectExec("INSERT INTO selected_classes").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Selection{Email: "a@x.com", ClassName: "Algebra"})
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestSelectionCreateAssignsIDAndClearsPayment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectExec("INSERT INTO selected_classes").WillReturnResult(sqlmock.NewResult(0, 1))

	tx := "forged"
	selection := &models.Selection{Email: "a@x.com", ClassName: "Algebra", TransactionID: &tx}
	require.NoError(t, repo.Create(context.Background(), selection))
	assert.NotEmpty(t, selection.ID)
	assert.Nil(t, selection.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionDeletePendingScopesToOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected_classes WHERE id = $1 AND email = $2 AND transaction_id IS NULL")).
		WithArgs(testSelectionID, "mallory@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeletePending(context.Background(), testSelectionID, "mallory@x.com")
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
