package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	opts := Opts{
		Config: "non-existent-config.yml",
	}

	err := run(ctx, opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "invalid-config-*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	tmpFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err = run(ctx, Opts{Config: tmpFile.Name()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ConflictingAliases(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "aliases-config-*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(`
halls:
  - slug: east-quad
    aliases: [quad]
  - slug: south-quad
    aliases: [quad]
`)
	require.NoError(t, err)
	tmpFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err = run(ctx, Opts{Config: tmpFile.Name()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to build hall registry")
}

func TestRun_ServerStartStop(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "scrounge-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Setenv("DB_PATH", tmpDir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)

	wd, err := os.Getwd()
	require.NoError(t, err)

	go func() {
		err := run(ctx, Opts{Config: wd + "/testdata/test_config.yml"})
		if err != nil && ctx.Err() == nil {
			serverErr <- err
		}
		close(serverErr)
	}()

	// wait for server to start
	time.Sleep(time.Second)

	select {
	case err := <-serverErr:
		t.Fatalf("server failed to start: %v", err)
	default:
	}

	resp, err := http.Get("http://127.0.0.1:18766/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-serverErr:
		if err != nil {
			t.Logf("server stopped with error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		SetupLog(true, "secret1", "secret2")
	})
}
