package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkerlin/nanoclaw-brain/internal/cli"
	"github.com/linkerlin/nanoclaw-brain/internal/db"
)

var now = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newCommand(func() time.Time { return now })
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	code = cli.Run(context.Background(), cmd, args)
	return code, out.String(), errOut.String()
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NANOCLAW_STORE_DIR", dir)
	t.Setenv("NANOCLAW_LOG_LEVEL", "")
	t.Setenv("BRAIN_REPO_PATH", "/repo")
	t.Setenv("GOOGLE_CREDS_DIR", "/creds")
	return filepath.Join(dir, "messages.db")
}

func TestRegister_Success(t *testing.T) {
	path := setupEnv(t)

	code, stdout, stderr := run(t, "tg:123")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Registered brain group for tg:123")
	require.Contains(t, stdout, "Repo: /repo")
	require.Contains(t, stdout, "/repo/specs → /workspace/extra/specs (read-only)")
	require.Contains(t, stdout, "Trigger required: no")

	store, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	defer store.Close()

	g, err := store.GetRegisteredGroup(context.Background(), "tg:123")
	require.NoError(t, err)
	require.Equal(t, "brain", g.Folder)
	require.False(t, g.RequiresTrigger)
	require.Equal(t, "/repo", g.ContainerConfig.GitSync.RepoPath)
	require.Len(t, g.ContainerConfig.AdditionalMounts, 7)
	require.Equal(t, "/creds/personal", g.ContainerConfig.AdditionalMounts[5].HostPath)
}

func TestRegister_RerunReplaces(t *testing.T) {
	path := setupEnv(t)

	code, _, _ := run(t, "tg:123")
	require.Equal(t, 0, code)

	t.Setenv("BRAIN_REPO_PATH", "/elsewhere")
	code, _, _ = run(t, "tg:123")
	require.Equal(t, 0, code)

	store, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	defer store.Close()

	groups, err := store.GetRegisteredGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "/elsewhere", groups[0].ContainerConfig.GitSync.RepoPath)
}

func TestRegister_BadJID(t *testing.T) {
	for _, args := range [][]string{{"bad-id"}, {}} {
		path := setupEnv(t)

		code, stdout, stderr := run(t, args...)
		require.Equal(t, 1, code)
		require.Empty(t, stdout)
		require.Contains(t, stderr, "Usage: register-brain tg:YOUR_CHAT_ID")
		require.Contains(t, stderr, "/chatid")

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err), "store must not be created for bad input")
	}
}

func TestRegister_FolderTakenByAnotherChat(t *testing.T) {
	setupEnv(t)

	code, _, _ := run(t, "tg:1")
	require.Equal(t, 0, code)

	code, stdout, stderr := run(t, "tg:2")
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "constraint violation on registered_groups")
}
