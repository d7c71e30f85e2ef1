package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

func TestRunServer_FalloDeListenTermina(t *testing.T) {
	addrInUse := errors.New("bind: address already in use")
	quit := make(chan os.Signal, 1)
	shutdownCalled := false

	err := runServer(
		func() error { return addrInUse },
		func(context.Context) error { shutdownCalled = true; return nil },
		quit, logger.Nop(),
	)
	require.ErrorIs(t, err, addrInUse)
	assert.False(t, shutdownCalled)
}

func TestRunServer_SenalApagaElServidor(t *testing.T) {
	quit := make(chan os.Signal, 1)
	stopped := make(chan struct{})

	quit <- syscall.SIGTERM
	err := runServer(
		func() error { <-stopped; return nil },
		func(context.Context) error { close(stopped); return nil },
		quit, logger.Nop(),
	)
	require.NoError(t, err)

	select {
	case <-stopped:
	default:
		t.Fatal("shutdown no fue invocado")
	}
}
