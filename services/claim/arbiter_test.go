package claim

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"boxpool/apperrors"
	redis_models "boxpool/models/redis"
	"boxpool/services/pending"
)

// fakeLedger records ClearPending calls so tests can assert the pending
// set is tidied exactly when a claim lands.
type fakeLedger struct {
	cleared [][2]string
}

func (f *fakeLedger) SetPending(gameCode, playerID string, cells []pending.Cell) ([]redis_models.PendingSelection, error) {
	return nil, nil
}

func (f *fakeLedger) ListPending(gameCode string) ([]redis_models.PendingSelection, error) {
	return nil, nil
}

func (f *fakeLedger) ClearPending(gameCode, playerID string) error {
	f.cleared = append(f.cleared, [2]string{gameCode, playerID})
	return nil
}

func (f *fakeLedger) ClearGame(gameCode string) error {
	return nil
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	return gormDB, mock
}

var testPlayerID = uuid.New()

func gameRows(status string, squareLimit int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"code", "owner_email", "status", "square_cost", "square_limit"}).
		AddRow("ABC123", "owner@example.com", status, 5.0, squareLimit)
}

func playerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "game_code", "email", "name"}).
		AddRow(testPlayerID.String(), "ABC123", "dana@example.com", "Dana")
}

func statusRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"status"}).AddRow(status)
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

// expectClaimTx queues the per-cell transaction up to (not including) the
// insert: status re-check, player row lock, quota count.
func expectClaimTx(mock sqlmock.Sqlmock, status string, count int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(statusRows(status))
	mock.ExpectQuery(`SELECT (.+) FROM "players" WHERE id = (.+) FOR UPDATE`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "squares"`).WillReturnRows(countRows(count))
}

func TestConfirmRejectsUnknownGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	_, err := arbiter.Confirm("NOPE00", "dana@example.com", []pending.Cell{{Row: 1, Col: 1}})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmFailsFastWhenGameNotInSetup(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("active", 10))

	result, err := arbiter.Confirm("ABC123", "dana@example.com", []pending.Cell{{Row: 1, Col: 1}})
	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
	assert.Empty(t, ledger.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRejectsUnknownPlayer(t *testing.T) {
	gormDB, mock := newMockDB(t)
	arbiter := &Arbiter{DB: gormDB, Pending: &fakeLedger{}}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("setup", 10))
	mock.ExpectQuery(`SELECT (.+) FROM "players"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := arbiter.Confirm("ABC123", "stranger@example.com", []pending.Cell{{Row: 1, Col: 1}})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRejectsOutOfBoundsCells(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("setup", 10))
	mock.ExpectQuery(`SELECT (.+) FROM "players"`).WillReturnRows(playerRows())

	result, err := arbiter.Confirm("ABC123", "dana@example.com", []pending.Cell{
		{Row: 10, Col: 0},
		{Row: 3, Col: -1},
	})
	assert.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Len(t, result.Rejected, 2)
	for _, rejected := range result.Rejected {
		assert.Equal(t, apperrors.CodeValidation, rejected.Code)
	}

	// No cell landed, so the pending set stays whatever it was.
	assert.Empty(t, ledger.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPartialSuccess(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("setup", 10))
	mock.ExpectQuery(`SELECT (.+) FROM "players"`).WillReturnRows(playerRows())

	// First cell claims cleanly.
	expectClaimTx(mock, "setup", 0)
	mock.ExpectQuery(`INSERT INTO "squares"`).
		WillReturnRows(sqlmock.NewRows([]string{"selected_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	// Second cell loses the uniqueness race.
	expectClaimTx(mock, "setup", 1)
	mock.ExpectQuery(`INSERT INTO "squares"`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	result, err := arbiter.Confirm("ABC123", "dana@example.com", []pending.Cell{
		{Row: 1, Col: 1},
		{Row: 2, Col: 2},
	})
	assert.NoError(t, err)

	// The accepted cell survives the later rejection.
	assert.Len(t, result.Accepted, 1)
	assert.Equal(t, 1, result.Accepted[0].Row)
	assert.Equal(t, 1, result.Accepted[0].Col)
	assert.Equal(t, testPlayerID, result.Accepted[0].PlayerID)

	assert.Len(t, result.Rejected, 1)
	assert.Equal(t, apperrors.CodeSquareTaken, result.Rejected[0].Code)
	assert.Equal(t, pending.Cell{Row: 2, Col: 2}, result.Rejected[0].Cell)

	// Something landed, so the player's pending set was cleared once.
	assert.Equal(t, [][2]string{{"ABC123", testPlayerID.String()}}, ledger.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRejectsWhenQuotaExhausted(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("setup", 2))
	mock.ExpectQuery(`SELECT (.+) FROM "players"`).WillReturnRows(playerRows())

	// Player already holds the limit; no insert is attempted.
	expectClaimTx(mock, "setup", 2)
	mock.ExpectRollback()

	result, err := arbiter.Confirm("ABC123", "dana@example.com", []pending.Cell{{Row: 4, Col: 4}})
	assert.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Len(t, result.Rejected, 1)
	assert.Equal(t, apperrors.CodeQuotaExceeded, result.Rejected[0].Code)
	assert.Empty(t, ledger.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRejectsCellWhenGameStartsMidCall(t *testing.T) {
	gormDB, mock := newMockDB(t)
	ledger := &fakeLedger{}
	arbiter := &Arbiter{DB: gormDB, Pending: ledger}

	// The outer gate saw setup, but the owner's start lands before the
	// cell transaction re-reads the status.
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRows("setup", 10))
	mock.ExpectQuery(`SELECT (.+) FROM "players"`).WillReturnRows(playerRows())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(statusRows("active"))
	mock.ExpectRollback()

	result, err := arbiter.Confirm("ABC123", "dana@example.com", []pending.Cell{{Row: 1, Col: 1}})
	assert.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Len(t, result.Rejected, 1)
	assert.Equal(t, apperrors.CodeInvalidState, result.Rejected[0].Code)
	assert.Empty(t, ledger.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}
