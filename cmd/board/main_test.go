package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todoBoard/internal/board"
	"todoBoard/internal/handlers"
	"todoBoard/internal/models/todo"
	"todoBoard/internal/repository/todo/inmemory"
	"todoBoard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *inmemory.TodoStorage) {
	t.Helper()
	store := inmemory.NewTodoStorage()
	r := chi.NewRouter()
	handlers.NewTodoHandler(service.NewTodoService(store)).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Lifecycle(t *testing.T) {
	srv, store := newServer(t)
	ctx := context.Background()

	_, _, err := runCmd(t, "", "-s", srv.URL, "add", "-d", "2099-01-01T09:00", "Buy", "milk")
	require.NoError(t, err)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	id := items[0].ID
	assert.Equal(t, "Buy milk", items[0].Text)

	out, _, err := runCmd(t, "", "--server", srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "[ ]")

	_, _, err = runCmd(t, "", "-s", srv.URL, "done", id)
	require.NoError(t, err)
	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Done)

	_, _, err = runCmd(t, "", "-s", srv.URL, "edit", id, "-d", "2099-02-01T09:00")
	require.NoError(t, err)
	got, err = store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, time.February, got.Deadline.Local().Month())

	_, _, err = runCmd(t, "n\n", "-s", srv.URL, "rm", id)
	require.NoError(t, err)
	_, err = store.GetByID(ctx, id)
	require.NoError(t, err)

	_, _, err = runCmd(t, "y\n", "-s", srv.URL, "rm", id)
	require.NoError(t, err)
	_, err = store.GetByID(ctx, id)
	assert.Error(t, err)
}

func TestRun_AddValidation(t *testing.T) {
	srv, store := newServer(t)

	_, stderr, err := runCmd(t, "", "-s", srv.URL, "add", "-d", "2000-01-01T00:00", "too late")
	assert.ErrorIs(t, err, board.ErrInvalid)
	assert.Contains(t, stderr, "Deadline cannot be in the past")

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRun_Usage(t *testing.T) {
	_, stderr, err := runCmd(t, "")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "usage: board")

	_, _, err = runCmd(t, "", "frobnicate")
	assert.ErrorIs(t, err, errUsage)

	_, _, err = runCmd(t, "", "done")
	assert.ErrorIs(t, err, errUsage)
}

func TestFormatRow(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	row := board.Row{
		Todo:    todo.Todo{ID: "abc", Text: "Buy milk", Deadline: &deadline},
		Urgency: board.UrgencyDueSoon,
		State:   board.StateDisplay,
	}

	line := formatRow(row)
	assert.Contains(t, line, "[ ]")
	assert.Contains(t, line, "Buy milk")
	assert.Contains(t, line, "abc")

	row.State = board.StateEditing
	row.Draft = board.Draft{Text: "Buy bread", Deadline: "2099-01-01T00:00"}
	line = formatRow(row)
	assert.Contains(t, line, "Buy bread")
	assert.Contains(t, line, "2099-01-01T00:00")
}
