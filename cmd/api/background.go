package main

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// backgroundTask runs a best-effort side effect (admin notification,
// auto-reply mail) off the request path. A failure is reported through a
// single hook and never changes the outcome already returned to the user:
// the lead is captured, delivery is not guaranteed.
func (app *application) backgroundTask(name string, fn func() error) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				app.onBestEffortFailure(name, fmt.Errorf("panic: %v", rec))
			}
		}()

		if err := fn(); err != nil {
			app.onBestEffortFailure(name, err)
		}
	}()
}

func (app *application) logBestEffortFailure(task string, err error) {
	app.logger.Errorw("best-effort task failed", "task", task, "error", err)

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("task", task)
			hub.CaptureException(err)
		})
	}
}
