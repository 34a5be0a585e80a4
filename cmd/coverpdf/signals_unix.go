//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a running generate or serve.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
