//go:build windows

package main

import "os"

// shutdownSignals stop a running generate or serve. SIGTERM does not
// exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
