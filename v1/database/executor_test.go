package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Aleph-Alpha/datalayer/v1/logger"
)

const samplesTable = `create table samples (
	id integer primary key,
	flag boolean,
	day date,
	at_time text,
	stamp datetime,
	f32 real,
	f64 real,
	i16 integer,
	i32 integer,
	i64 integer,
	txt text
)`

var sampleResults = []Result{
	R("flag", TypeBoolean),
	R("day", TypeDate),
	R("at_time", TypeTime),
	R("stamp", TypeDateTime),
	R("f32", TypeFloat32),
	R("f64", TypeFloat64),
	R("i16", TypeInt16),
	R("i32", TypeInt32),
	R("i64", TypeInt64),
	R("txt", TypeText),
}

const insertSample = `insert into samples (id, flag, day, at_time, stamp, f32, f64, i16, i32, i64, txt)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSample = `select flag, day, at_time, stamp, f32, f64, i16, i32, i64, txt from samples where id = ?`

func TestExecuteAndQueryAlice(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, Options{})
	mustExec(t, db, usersTable)

	affected, err := db.Execute(ctx, "insert into users(name) values (?)", Text("alice"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := db.Query(ctx, "select name from users where name = ?",
		[]Param{Text("alice")}, []Result{R("name", TypeText)}, ReadWrite)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	name, err := rows[0].Text("name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestRoundTripAllTypes(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, Options{})
	mustExec(t, db, samplesTable)

	day := NewDate(2024, time.March, 5)
	at := TimeOfDay{Hour: 14, Minute: 30, Second: 15, Nanosecond: 250000000}
	stamp := time.Date(2024, time.March, 5, 14, 30, 15, 123456000, time.UTC)

	_, err := db.Execute(ctx, insertSample,
		Int64(1),
		Bool(true),
		DateParam(day),
		TimeParam(at),
		DateTimeParam(stamp),
		Float32(1.5),
		Float64(-2.25),
		Int16(-12),
		Int32(70000),
		Int64(1<<40),
		Text("héllo"),
	)
	require.NoError(t, err)

	row, found, err := db.QueryOne(ctx, selectSample, []Param{Int64(1)}, sampleResults, ReadWrite)
	require.NoError(t, err)
	require.True(t, found)

	flag, err := row.Bool("flag")
	require.NoError(t, err)
	assert.True(t, flag)

	gotDay, err := row.Date("day")
	require.NoError(t, err)
	assert.Equal(t, day, gotDay)

	gotAt, err := row.Time("at_time")
	require.NoError(t, err)
	assert.Equal(t, at, gotAt)

	gotStamp, err := row.DateTime("stamp")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(gotStamp), "got %s", gotStamp)

	f32, err := row.Float32("f32")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := row.Float64("f64")
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	i16, err := row.Int16("i16")
	require.NoError(t, err)
	assert.Equal(t, int16(-12), i16)

	i32, err := row.Int32("i32")
	require.NoError(t, err)
	assert.Equal(t, int32(70000), i32)

	i64, err := row.Int64("i64")
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), i64)

	txt, err := row.Text("txt")
	require.NoError(t, err)
	assert.Equal(t, "héllo", txt)
}

func TestRoundTripNulls(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, Options{})
	mustExec(t, db, samplesTable)

	_, err := db.Execute(ctx, insertSample,
		Int64(2),
		NullBool(nil),
		NullDate(nil),
		NullTime(nil),
		NullDateTime(nil),
		NullFloat32(nil),
		NullFloat64(nil),
		NullInt16(nil),
		NullInt32(nil),
		NullInt64(nil),
		NullText(nil),
	)
	require.NoError(t, err)

	row, found, err := db.QueryOne(ctx, selectSample, []Param{Int64(2)}, sampleResults, ReadWrite)
	require.NoError(t, err)
	require.True(t, found)

	for _, r := range sampleResults {
		assert.False(t, row.Has(r.Name), r.Name)
		v, err := row.Value(r.Name)
		require.NoError(t, err)
		assert.Nil(t, v, r.Name)
	}

	txt, err := row.TextOrNull("txt")
	require.NoError(t, err)
	assert.Nil(t, txt)

	_, err = row.Int64("i64")
	var mismatch *TypeMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestQueryReturnsEmptySlice(t *testing.T) {
	db := newTestDatabase(t, Options{})
	mustExec(t, db, usersTable)

	rows, err := db.Query(context.Background(), "select name from users", nil, []Result{R("name", TypeText)}, Read)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, found, err := db.QueryOne(context.Background(), "select name from users", nil, []Result{R("name", TypeText)}, Read)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQueryInt(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, Options{})
	mustExec(t, db, usersTable)

	n, err := db.QueryInt(ctx, "select age from users where name = ?", Text("nobody"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mustExec(t, db, "insert into users(name, age) values (?, ?)", Text("alice"), Int32(31))
	mustExec(t, db, "insert into users(name, age) values (?, ?)", Text("bob"), NullInt32(nil))

	n, err = db.QueryInt(ctx, "select count(*) from users")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.QueryIntReadOnly(ctx, "select age from users where name = ?", Text("alice"))
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	n, err = db.QueryInt(ctx, "select age from users where name = ?", Text("bob"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueryIDsPreservesOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, Options{})
	mustExec(t, db, usersTable)
	for _, name := range []string{"a", "b", "c"} {
		mustExec(t, db, "insert into users(name) values (?)", Text(name))
	}

	ids, err := db.QueryIDs(ctx, "select id from users order by id desc")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids)

	ids, err = db.QueryIDsReadOnly(ctx, "select id from users where name <> ? order by name", Text("b"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	ids, err = db.QueryIDs(ctx, "select id from users where name = ?", Text("zed"))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadsRotateOverReplicas(t *testing.T) {
	ctx := context.Background()
	primary := openSQLite(t, "primary")
	var replicas []*sql.DB
	for _, name := range []string{"r1", "r2", "r3"} {
		replica := openSQLite(t, name)
		_, err := replica.Exec("create table whoami (name text)")
		require.NoError(t, err)
		_, err = replica.Exec("insert into whoami values (?)", name)
		require.NoError(t, err)
		replicas = append(replicas, replica)
	}
	db := NewFromDB(primary, replicas, Options{})

	var got []string
	for i := 0; i < 6; i++ {
		rows, err := db.QueryReadOnly(ctx, "select name from whoami", nil, []Result{R("name", TypeText)})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		name, err := rows[0].Text("name")
		require.NoError(t, err)
		got = append(got, name)
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "r1", "r2", "r3"}, got)

	_, err := db.Execute(ctx, "insert into whoami values (?)", Text("primary"))
	assert.Error(t, err, "writes must go to the primary, which has no whoami table")
}

func TestStatementErrorWrapsDriverError(t *testing.T) {
	db := newTestDatabase(t, Options{})

	_, err := db.Execute(context.Background(), "insert into missing values (?)", Int64(1))
	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, "insert into missing values (?)", stmtErr.SQL)
	assert.Equal(t, "primary", stmtErr.Target)
	assert.NotNil(t, errors.Unwrap(err))
	assert.False(t, errors.Is(err, ErrDuplicateKey))
}

func TestStatementErrorClassification(t *testing.T) {
	dialect := GenericDialect
	dialect.IsUniqueViolation = func(err error) bool { return true }
	db := NewFromDB(openSQLite(t, "primary"), nil, Options{Dialect: dialect})
	mustExec(t, db, usersTable)
	mustExec(t, db, "insert into users(name) values (?)", Text("alice"))

	_, err := db.Execute(context.Background(), "insert into users(name) values (?)", Text("alice"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, ErrDuplicateKey, TranslateError(err))
}

func TestStatementsAreLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db := newTestDatabase(t, Options{Logger: logger.NewFromZap(zap.New(core), false)})
	mustExec(t, db, usersTable)

	_, err := db.Execute(context.Background(), "insert into users(name) values (?)", Text("alice"))
	require.NoError(t, err)

	entries := logs.FilterMessage("executing statement").FilterField(zap.String("sql", "insert into users(name) values (?)")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, []interface{}{"alice::Text"}, entries[0].ContextMap()["params"])
}

func TestConnectionUsageIsTracked(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := NewMockUsageTracker(ctrl)
	tracker.EXPECT().RecordConnectionUsage(gomock.Any(), "primary", gomock.Any()).Times(2)

	db := newTestDatabase(t, Options{Trackers: []UsageTracker{tracker}})
	mustExec(t, db, usersTable)
	_, err := db.QueryInt(context.Background(), "select count(*) from users")
	require.NoError(t, err)
}

type recordedStatement struct {
	kind string
	err  error
}

type statementRecorderStub struct {
	calls []recordedStatement
}

func (s *statementRecorderStub) RecordStatement(kind string, _ time.Time, err error) {
	s.calls = append(s.calls, recordedStatement{kind: kind, err: err})
}

func TestStatementsAreRecorded(t *testing.T) {
	recorder := &statementRecorderStub{}
	db := newTestDatabase(t, Options{Statements: recorder})
	mustExec(t, db, usersTable)
	_, _ = db.QueryIDs(context.Background(), "select id from nowhere")

	require.Len(t, recorder.calls, 2)
	assert.Equal(t, "execute", recorder.calls[0].kind)
	assert.NoError(t, recorder.calls[0].err)
	assert.Equal(t, "query", recorder.calls[1].kind)
	assert.Error(t, recorder.calls[1].err)
}

func TestConnected(t *testing.T) {
	db := newTestDatabase(t, Options{})
	assert.True(t, db.Connected(context.Background()))

	require.NoError(t, db.Close())
	assert.False(t, db.Connected(context.Background()))
}

func TestConnectedIsNotCountedAsStatement(t *testing.T) {
	recorder := &statementRecorderStub{}
	core, logs := observer.New(zap.DebugLevel)
	db := newTestDatabase(t, Options{
		Logger:     logger.NewFromZap(zap.New(core), false),
		Statements: recorder,
	})

	assert.True(t, db.Connected(context.Background()))
	db.checkHealth(context.Background())

	assert.Empty(t, recorder.calls)
	assert.Zero(t, logs.FilterMessage("executing statement").Len())
}

func TestNoTarget(t *testing.T) {
	db := NewFromDB(nil, nil, Options{})
	_, err := db.Execute(context.Background(), "select 1")
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.False(t, db.Connected(context.Background()))
}

func TestUnsupportedParamFailsBeforeExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := NewMockUsageTracker(ctrl)

	db := newTestDatabase(t, Options{Trackers: []UsageTracker{tracker}})
	_, err := db.Execute(context.Background(), "select ?", P(42, TypeInt64))
	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}
