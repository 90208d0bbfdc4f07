package core

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService() *Service {
	return NewService(NewSessionStore(time.Hour, time.Minute), nil, ServiceConfig{MaxFiles: 5})
}

func TestSessionStore(t *testing.T) {
	st := NewSessionStore(time.Hour, time.Minute)

	s := st.Create()
	require.NotEmpty(t, s.ID)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get("")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	again, created := st.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	fresh, created := st.GetOrCreate("gone")
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, 2, st.Count())

	st.Delete(s.ID)
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	st := NewSessionStore(20*time.Millisecond, time.Hour)
	s := st.Create()

	time.Sleep(40 * time.Millisecond)
	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_NoWorkspace(t *testing.T) {
	svc := newTestService()
	s := svc.Sessions().Create()

	_, err := svc.Workspace(s.ID)
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, err = svc.Query(s.ID, Query{})
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, _, _, err = svc.AddToBasket(s.ID, Query{})
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestService_Workflow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sess := svc.Sessions().Create()

	report, err := svc.Upload(ctx, sess.ID, []Source{
		csvSource("skin.csv", "Name,Research Field,Interest\nAda,Skin,DNA repair\nBob,Skin,Hair growth\n"),
		csvSource("bone.csv", "Name,Research Field,Interest\nCy,Bone,DNA methylation\n"),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, ModeMulti, report.Mode)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, Roles{Category: "Research Field", Interest: "Interest"}, report.Roles)

	rs, err := svc.Query(sess.ID, Query{Category: "Skin", Interest: "dna"})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())

	matched, added, size, err := svc.AddToBasket(sess.ID, Query{Interest: "dna"})
	require.NoError(t, err)
	assert.Equal(t, 2, matched)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, size)

	_, added, size, err = svc.AddToBasket(sess.ID, Query{Interest: "DNA"})
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 2, size)

	art, err := svc.ExportBasket(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, MultiExportName, art.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Research Field", "Interest", OriginColumn}, rows[0])
	assert.Len(t, rows, 3)

	require.NoError(t, svc.ResetBasket(sess.ID))
	basket, err := svc.Basket(sess.ID)
	require.NoError(t, err)
	assert.Zero(t, basket.Len())
}

func TestService_FailedUploadKeepsState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sess := svc.Sessions().Create()

	_, err := svc.Upload(ctx, sess.ID, []Source{csvSource("good.csv", "Name,Field\nAda,Skin\n")}, ModeSingle)
	require.NoError(t, err)
	_, _, _, err = svc.AddToBasket(sess.ID, Query{})
	require.NoError(t, err)

	_, err = svc.Upload(ctx, sess.ID, []Source{csvSource("bad.csv", "Name\nAda,extra\n")}, ModeSingle)
	var se *SourceError
	require.ErrorAs(t, err, &se)

	ws, err := svc.Workspace(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "good.csv", ws.Sources[0].Name)

	basket, err := svc.Basket(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, basket.Len())
}

func TestService_UploadLimits(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewSessionStore(time.Hour, time.Minute), nil, ServiceConfig{MaxFiles: 1})
	sess := svc.Sessions().Create()

	_, err := svc.Upload(ctx, "nope", []Source{csvSource("a.csv", "x\n1\n")}, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Upload(ctx, sess.ID, nil, "")
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = svc.Upload(ctx, sess.ID, []Source{csvSource("a.csv", "x\n1\n"), csvSource("b.csv", "x\n2\n")}, "")
	assert.ErrorIs(t, err, ErrTooManyFiles)
}

func TestService_NothingLoaded(t *testing.T) {
	svc := newTestService()
	sess := svc.Sessions().Create()

	report, err := svc.Upload(context.Background(), sess.ID, []Source{
		csvSource("a.csv", ""),
		csvSource("b.csv", ""),
	}, ModeMulti)
	assert.ErrorIs(t, err, ErrNothingLoaded)
	require.NotNil(t, report)
	assert.Len(t, report.Failures, 2)
}

func TestService_OverrideRoles(t *testing.T) {
	svc := newTestService()
	sess := svc.Sessions().Create()

	_, err := svc.Upload(context.Background(), sess.ID, []Source{
		csvSource("a.csv", "Name,Dept,Topic\nAda,Skin,DNA\nBob,Hair,Growth\n"),
	}, "")
	require.NoError(t, err)

	ws, err := svc.Workspace(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, Roles{}, ws.Roles)

	_, err = svc.OverrideRoles(sess.ID, Roles{Category: "Dept", Interest: "Topic"})
	require.NoError(t, err)

	rs, err := svc.Query(sess.ID, Query{Category: "Skin"})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())

	_, err = svc.OverrideRoles(sess.ID, Roles{Category: "Nope"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestService_ExportWithoutWorkspace(t *testing.T) {
	svc := newTestService()
	sess := svc.Sessions().Create()

	art, err := svc.ExportBasket(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SingleExportName, art.FileName)
}

func TestContextSessionID(t *testing.T) {
	ctx := ContextWithSessionID(context.Background(), "abc")
	assert.Equal(t, "abc", SessionIDFromContext(ctx))
	assert.Empty(t, SessionIDFromContext(context.Background()))
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, LoggerFromContext(ContextWithLogger(context.Background(), l)))
}

func TestService_UploadLogsThroughContextLogger(t *testing.T) {
	svc := newTestService()
	sess := svc.Sessions().Create()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("request_id", "req-7")
	ctx := ContextWithLogger(context.Background(), logger)

	_, err := svc.Upload(ctx, sess.ID, []Source{
		csvSource("faculty.csv", "Name\nAda\n"),
		csvSource("empty.csv", ""),
	}, ModeMulti)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		`msg="source skipped"`,
		"source=empty.csv",
		`msg="ingest complete"`,
		`msg="workspace loaded"`,
		"session=" + sess.ID,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 3, strings.Count(out, "request_id=req-7"))
}
