package httpserver_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/httpserver"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

// start runs srv in the background and returns its base URL and the Run result channel.
func start(t *testing.T, ctx context.Context, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()
	bound := make(chan string, 1)
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStartHook(func(addr string) { bound <- addr }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, okHandler()) }()

	select {
	case addr := <-bound:
		return srv, "http://" + addr, done
	case err := <-done:
		require.FailNow(t, "server did not start", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start in time")
	}
	return nil, "", nil
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not return")
		return nil
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, url, done := start(t, ctx)
	require.NotNil(t, srv.Addr())

	resp, err := http.Get(url)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, wait(t, done))
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_Shutdown(t *testing.T) {
	t.Parallel()
	var stopped atomic.Int32
	srv, _, done := start(t, context.Background(), httpserver.WithStopHook(func() { stopped.Add(1) }))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, wait(t, done))
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, int32(1), stopped.Load())
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	t.Parallel()
	assert.NoError(t, httpserver.New().Shutdown(context.Background()))
}

func TestServer_StartErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad address", func(t *testing.T) {
		t.Parallel()
		err := httpserver.New(httpserver.WithAddr(":invalid")).Run(context.Background(), okHandler())
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("port in use", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		err = httpserver.New(httpserver.WithAddr(ln.Addr().String())).Run(context.Background(), okHandler())
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("already running", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv, _, done := start(t, ctx)

		err := srv.Run(ctx, okHandler())
		assert.True(t, errors.Is(err, httpserver.ErrAlreadyRunning))

		cancel()
		require.NoError(t, wait(t, done))
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, okHandler()) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, wait(t, done))
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithReadHeaderTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithWriteTimeout(0) })
	assert.Panics(t, func() { httpserver.WithIdleTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.WithStartHook(nil) })
	assert.Panics(t, func() { httpserver.WithStopHook(nil) })
}
