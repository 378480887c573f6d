package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback run during startup or shutdown.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run once every handle is attached, before the
// ready check.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run after the ready check. The admin server
// is started from here.
func (a *App) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run at shutdown before handles are detached.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
