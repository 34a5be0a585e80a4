package main

import (
	"context"
	"testing"
)

func TestNotifyContext_CancelStops(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := notifyContext(parent)
	defer stop()

	if ctx.Err() != nil {
		t.Fatal("context done before any signal")
	}
	cancelParent()
	<-ctx.Done()
	if len(shutdownSignals) == 0 {
		t.Error("no shutdown signals registered")
	}
}
