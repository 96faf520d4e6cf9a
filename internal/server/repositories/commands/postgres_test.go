package commands

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func commandRows(cmds ...*models.Command) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "device_id", "user_id", "kind", "params", "status",
		"result", "error_message", "created_at", "updated_at", "completed_at"})
	for _, c := range cmds {
		rows.AddRow(c.ID, c.DeviceID, c.UserID, c.Kind, c.Params, c.Status,
			c.Result, c.ErrorMessage, c.CreatedAt, c.UpdatedAt, c.CompletedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+commands\s*\(id,\s*device_id,\s*user_id,\s*kind,\s*params,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`

	mock.ExpectExec(q).
		WithArgs("c1", "dev1", "u1", "photo", []byte(`{}`), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cmd := &models.Command{ID: "c1", DeviceID: "dev1", UserID: "u1", Kind: "photo", Params: []byte(`{}`), Status: "pending"}
	if err := repo.Create(context.Background(), cmd); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+commands`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Command{ID: "c1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+commands\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestClaimPending_FlipsToExecuting(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+commands\s+SET\s+status\s*=\s*'executing',\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s+IN\s*\(\s*SELECT\s+id\s+FROM\s+commands\s+WHERE\s+device_id\s*=\s*\$1\s+AND\s+status\s*=\s*'pending'\s+ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+\$2\s+FOR\s+UPDATE\s+SKIP\s+LOCKED\s*\)\s*RETURNING\s+.*$`

	now := time.Now()
	first := &models.Command{ID: "c1", DeviceID: "dev1", Kind: "photo", Status: "executing", CreatedAt: now, UpdatedAt: now}
	second := &models.Command{ID: "c2", DeviceID: "dev1", Kind: "status", Status: "executing", CreatedAt: now.Add(time.Second), UpdatedAt: now}

	// RETURNING rows arrive newest first; the repo restores claim order.
	mock.ExpectQuery(q).
		WithArgs("dev1", 10).
		WillReturnRows(commandRows(second, first))

	claimed, err := repo.ClaimPending(context.Background(), "dev1", 10)
	if err != nil {
		t.Fatalf("ClaimPending error: %v", err)
	}
	if len(claimed) != 2 || claimed[0].ID != "c1" || claimed[1].ID != "c2" {
		t.Fatalf("unexpected claim order: %+v", claimed)
	}
}

func TestClaimPending_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+commands`).
		WithArgs("dev1", 10).
		WillReturnRows(commandRows())

	claimed, err := repo.ClaimPending(context.Background(), "dev1", 10)
	if err != nil {
		t.Fatalf("ClaimPending error: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("expected no commands, got %d", len(claimed))
	}
}

func TestSetResult_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+commands\s+SET\s+status\s*=\s*\$3,\s*result\s*=\s*\$4,\s*error_message\s*=\s*\$5,\s*completed_at\s*=\s*now\(\),\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+device_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("c1", "dev1", "completed", []byte(`{"ok":true}`), "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetResult(context.Background(), "dev1", "c1", "completed", []byte(`{"ok":true}`), "")
	if err != nil {
		t.Fatalf("SetResult error: %v", err)
	}
}

func TestSetResult_WrongDevice(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+commands`).
		WithArgs("c1", "other", "failed", []byte(nil), "boom").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResult(context.Background(), "other", "c1", "failed", nil, "boom")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCountPending(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+commands\s+WHERE\s+device_id\s*=\s*\$1\s+AND\s+status\s*=\s*'pending'`).
		WithArgs("dev1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.CountPending(context.Background(), "dev1")
	if err != nil {
		t.Fatalf("CountPending error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 pending, got %d", n)
	}
}

func TestFailStalled_ReportsCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+commands\s+SET\s+status\s*=\s*'failed',\s*error_message\s*=\s*'execution timed out',\s*completed_at\s*=\s*now\(\),\s*updated_at\s*=\s*now\(\)\s+WHERE\s+status\s*=\s*'executing'\s+AND\s+updated_at\s*<\s*now\(\)\s*-\s*\$1::interval\s*$`

	mock.ExpectExec(q).
		WithArgs("300 seconds").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.FailStalled(context.Background(), 5*time.Minute)
	if err != nil {
		t.Fatalf("FailStalled error: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 failed, got %d", n)
	}
}

func TestSortByCreation_TiesBreakOnID(t *testing.T) {
	now := time.Now()
	cmds := []*models.Command{
		{ID: "b", CreatedAt: now},
		{ID: "a", CreatedAt: now},
		{ID: "c", CreatedAt: now.Add(-time.Second)},
	}
	sortByCreation(cmds)
	if cmds[0].ID != "c" || cmds[1].ID != "a" || cmds[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", cmds[0].ID, cmds[1].ID, cmds[2].ID)
	}
}
