package mirror

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []any
}

type fakeResult struct{ affected int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool   { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *bool:
			*p = row[i].(bool)
		case *time.Time:
			*p = row[i].(time.Time)
		case *sql.NullString:
			if row[i] != nil {
				*p = sql.NullString{String: row[i].(string), Valid: true}
			}
		case *sql.NullFloat64:
			if row[i] != nil {
				*p = sql.NullFloat64{Float64: row[i].(float64), Valid: true}
			}
		}
	}
	return nil
}

type fakeConn struct {
	execs    []execCall
	execErr  error
	affected int64
	rows     [][]any
	closed   bool
}

func (c *fakeConn) ExecContext(_ context.Context, q string, args ...any) (sql.Result, error) {
	c.execs = append(c.execs, execCall{query: q, args: args})
	if c.execErr != nil && !strings.HasPrefix(strings.TrimSpace(q), "CREATE") {
		return nil, c.execErr
	}
	return fakeResult{affected: c.affected}, nil
}

func (c *fakeConn) QueryContext(_ context.Context, q string, _ ...any) (rows, error) {
	c.execs = append(c.execs, execCall{query: q})
	return &fakeRows{data: c.rows}, nil
}

func (c *fakeConn) PingContext(context.Context) error { return nil }
func (c *fakeConn) Close() error                      { c.closed = true; return nil }

func newTestLive(t *testing.T, fc *fakeConn) *LiveStore {
	t.Helper()
	s, err := NewLiveStore(Config{Host: "db", Port: "3306", Database: "sudevi", Table: "products"})
	require.NoError(t, err)
	dials := 0
	s.dial = func() (conn, error) { dials++; return fc, nil }
	t.Cleanup(func() { assert.LessOrEqual(t, dials, 1) })
	return s
}

func price(v float64) *float64 { return &v }

func TestLiveUpsertEnsuresTableOnce(t *testing.T) {
	fc := &fakeConn{affected: 1}
	s := newTestLive(t, fc)
	ctx := context.Background()

	p := Product{ID: "p-1", Name: "Mango Pickle", Category: "pickles", Price: price(149), Features: []string{"Homemade"}, IsActive: true}
	require.NoError(t, s.Upsert(ctx, p))
	require.NoError(t, s.Upsert(ctx, p))

	require.Len(t, fc.execs, 3)
	assert.Contains(t, fc.execs[0].query, "CREATE TABLE IF NOT EXISTS products")
	assert.Contains(t, fc.execs[1].query, "ON DUPLICATE KEY UPDATE")

	args := fc.execs[1].args
	assert.Equal(t, "p-1", args[0])
	assert.Nil(t, args[2], "empty description is stored as NULL")
	assert.Equal(t, `["Homemade"]`, args[6])
	assert.Equal(t, true, args[7])
}

func TestLiveUpsertRejectsInvalid(t *testing.T) {
	fc := &fakeConn{}
	s := newTestLive(t, fc)
	assert.ErrorIs(t, s.Upsert(context.Background(), Product{Name: "no id"}), ErrInvalidProduct)
	assert.Empty(t, fc.execs)
}

func TestLiveUpsertWrapsDriverError(t *testing.T) {
	fc := &fakeConn{execErr: errors.New("Error 1045: Access denied")}
	s := newTestLive(t, fc)
	err := s.Upsert(context.Background(), Product{ID: "p-2", Name: "Jeera"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror: upsert p-2")
}

func TestLiveList(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	fc := &fakeConn{rows: [][]any{
		{"p-2", "Soya Chunks", nil, "soya", 60.0, "https://img/s.jpg", `["High protein"]`, true, ts, ts},
		{"p-1", "Vermicelli", "Roasted", "vermicelli", nil, nil, nil, false, ts, ts},
	}}
	s := newTestLive(t, fc)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"High protein"}, got[0].Features)
	assert.Equal(t, 60.0, *got[0].Price)
	assert.Nil(t, got[1].Price)
	assert.Equal(t, "Roasted", got[1].Description)
	assert.Contains(t, fc.execs[1].query, "ORDER BY created_at DESC")
}

func TestLiveDeleteNotFound(t *testing.T) {
	fc := &fakeConn{affected: 0}
	s := newTestLive(t, fc)
	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), ErrNotFound)
	assert.Equal(t, []any{"missing"}, fc.execs[1].args)
}

func TestLiveCloseResetsEnsure(t *testing.T) {
	fc := &fakeConn{affected: 1}
	s := newTestLive(t, fc)
	require.NoError(t, s.EnsureTable(context.Background()))
	require.NoError(t, s.Close())
	assert.True(t, fc.closed)
	assert.False(t, s.ensured)
}

func TestNewLiveStoreValidation(t *testing.T) {
	_, err := NewLiveStore(Config{Host: "db"})
	assert.Error(t, err)

	_, err = NewLiveStore(Config{Host: "db", Database: "x", Table: "products; DROP TABLE users"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn := DSN(Config{User: "sync", Password: "p@ss", Host: "mysql.internal", Port: "3307", Database: "sudevi", Timeout: 5 * time.Second})
	assert.True(t, strings.HasPrefix(dsn, "sync:p@ss@tcp(mysql.internal:3307)/sudevi?"))
	assert.Contains(t, dsn, "parseTime=true")
}

func TestNewByMode(t *testing.T) {
	s, err := New(Config{Mode: ModeOff})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Upsert(context.Background(), Product{ID: "1", Name: "x"}), ErrDisabled)

	s, err = New(Config{Mode: ModeSimulate})
	require.NoError(t, err)
	assert.Equal(t, ModeSimulate, s.Mode())

	_, err = New(Config{Mode: "replica"})
	assert.Error(t, err)
}

func TestSimulatedStore(t *testing.T) {
	s := NewSimulatedStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Minute); return clock }
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Product{ID: "a", Name: "Lime Pickle"}))
	require.NoError(t, s.Upsert(ctx, Product{ID: "b", Name: "Garam Masala"}))
	require.NoError(t, s.Upsert(ctx, Product{ID: "a", Name: "Lime Pickle (500g)"}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "newest created first")
	assert.Equal(t, "Lime Pickle (500g)", got[1].Name)
	assert.True(t, got[1].UpdatedAt.After(got[1].CreatedAt))

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
}
