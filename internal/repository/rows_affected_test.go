package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey2020/docs-cabinet-cp2/internal/repository"
)

var errNoCount = errors.New("rows affected not supported")

// noCountDriver accepts every statement but cannot report affected rows.
type noCountDriver struct{}

func (noCountDriver) Open(string) (driver.Conn, error) { return noCountConn{}, nil }

type noCountConn struct{}

func (noCountConn) Prepare(string) (driver.Stmt, error) { return noCountStmt{}, nil }
func (noCountConn) Close() error                        { return nil }
func (noCountConn) Begin() (driver.Tx, error)           { return nil, errors.New("no transactions") }

type noCountStmt struct{}

func (noCountStmt) Close() error  { return nil }
func (noCountStmt) NumInput() int { return -1 }

func (noCountStmt) Exec([]driver.Value) (driver.Result, error) { return noCountResult{}, nil }

func (noCountStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("no queries")
}

type noCountResult struct{}

func (noCountResult) LastInsertId() (int64, error) { return 0, errNoCount }
func (noCountResult) RowsAffected() (int64, error) { return 0, errNoCount }

func init() {
	sql.Register("nocount", noCountDriver{})
}

func TestDocumentRepo_DeleteReportsRowsAffectedFailure(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("nocount", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = repository.NewDocumentRepo(db).Delete(context.Background(), 7)
	require.ErrorIs(t, err, errNoCount)
	require.NotErrorIs(t, err, repository.ErrDocumentNotFound)
}
