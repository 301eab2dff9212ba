// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes tracks go routines so their owner can wait for them on shutdown.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a tracked go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoWithContext runs f in a go routine with a context that is canceled
// when parent is done or the returned cancel func is called.
func (g *Goes) GoWithContext(parent context.Context, f func(ctx context.Context)) context.CancelFunc {
	ctx, cancel := context.WithCancel(parent)
	g.Go(func() {
		defer cancel()
		f(ctx)
	})
	return cancel
}

// Wait blocks until every tracked go routine has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done is closed once every tracked go routine has returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
