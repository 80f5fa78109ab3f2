package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crash-severity-prep/models"
)

// recordingDriver logs statements and transaction outcomes, and fails the
// insert with index failInsert (1-based, 0 never fails).
type recordingDriver struct {
	mu         sync.Mutex
	statements []string
	commits    int
	rollbacks  int
	inserts    int
	failInsert int
}

func (d *recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{d: d}, nil }

type recordingConn struct{ d *recordingDriver }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *recordingConn) Close() error              { return nil }
func (c *recordingConn) Begin() (driver.Tx, error) { return &recordingTx{d: c.d}, nil }

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	d := c.d
	d.mu.Lock()
	defer d.mu.Unlock()

	q := strings.TrimSpace(query)
	d.statements = append(d.statements, strings.Fields(q)[0])
	if strings.HasPrefix(q, "INSERT") {
		d.inserts++
		if d.inserts == d.failInsert {
			return nil, errors.New("connection reset")
		}
	}
	return driver.RowsAffected(1), nil
}

type recordingTx struct{ d *recordingDriver }

func (t *recordingTx) Commit() error {
	t.d.mu.Lock()
	t.d.commits++
	t.d.mu.Unlock()
	return nil
}

func (t *recordingTx) Rollback() error {
	t.d.mu.Lock()
	t.d.rollbacks++
	t.d.mu.Unlock()
	return nil
}

var driverSeq int

func openRecording(t *testing.T, d *recordingDriver) *PostgresWriter {
	t.Helper()
	driverSeq++
	name := fmt.Sprintf("recording-%d", driverSeq)
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return newPostgresWriter(db, nil)
}

func mergedRecords(n int) []*models.MergedRecord {
	out := make([]*models.MergedRecord, n)
	for i := range out {
		out[i] = &models.MergedRecord{
			Crash: &models.Crash{CrashFactID: fmt.Sprint(i), Name: fmt.Sprintf("C-%d", i)},
			Party: &models.Party{CrashName: fmt.Sprintf("C-%d", i)},
		}
	}
	return out
}

func TestPostgresWriteCommitsOnce(t *testing.T) {
	d := &recordingDriver{}
	pw := openRecording(t, d)

	require.NoError(t, pw.Write("run-1", mergedRecords(120)))

	assert.Equal(t, []string{"DELETE", "INSERT", "INSERT", "INSERT"}, d.statements)
	assert.Equal(t, 1, d.commits)
	assert.Equal(t, 0, d.rollbacks)
}

func TestPostgresWriteRollsBackFailedBatch(t *testing.T) {
	d := &recordingDriver{failInsert: 2}
	pw := openRecording(t, d)

	err := pw.Write("run-1", mergedRecords(120))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert rows 50-100")

	// the delete of earlier runs is undone together with the first batch
	assert.Equal(t, []string{"DELETE", "INSERT", "INSERT"}, d.statements)
	assert.Equal(t, 0, d.commits)
	assert.Equal(t, 1, d.rollbacks)
}

func TestPostgresWriteEmptyIsNoop(t *testing.T) {
	d := &recordingDriver{}
	pw := openRecording(t, d)

	require.NoError(t, pw.Write("run-1", nil))
	assert.Empty(t, d.statements)
	assert.Equal(t, 0, d.commits)
}
