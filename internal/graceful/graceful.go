package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func MakeSigintChan() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

// CancelOnSignal cancels the returned context when SIGINT or SIGTERM arrives,
// reporting the signal through onSignal.
func CancelOnSignal(parent context.Context, onSignal func(os.Signal)) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		defer cancel()
		select {
		case sig := <-MakeSigintChan():
			if onSignal != nil {
				onSignal(sig)
			}
		case <-parent.Done():
		}
	}()
	return ctx
}
