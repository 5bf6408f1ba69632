package mcp

import (
	"context"
	"os"
	"time"

	"egolens/internal/logging"
)

// WatchParent polls for parent process death in a background goroutine
// and calls cancelFn when the parent PID changes, so a disconnected MCP
// client cannot leave a zombie server behind.
//
// This must NOT read from stdin — the SDK's StdioTransport owns stdin
// exclusively, and stealing bytes here would corrupt the JSON-RPC stream.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	ppid := os.Getppid()
	logger := logging.New("mcp")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					logger.Warn("parent process died, shutting down", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
