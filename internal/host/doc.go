// Package host provides frame primitives that drive an animator.Animator.
//
// Loop is the production primitive. It owns a single goroutine (the one
// calling Run) and a ticker at the display refresh interval. Frame callbacks
// scheduled before a tick fire once on that tick. Everything that touches an
// Animator must run on the loop goroutine; other goroutines hand work over
// with Submit.
//
// Submitted tasks run in FIFO order as soon as they arrive. Per tick the loop:
//  1. runs any tasks still queued;
//  2. takes the callbacks scheduled so far and invokes each with Clock.Now().
//
// Callbacks scheduled while step 2 runs wait for the next tick, so an
// animation that re-arms itself every frame advances once per tick.
//
// A callback error (an aborted frame) is logged and handed to the error
// handler; the loop keeps running. The animator has already armed the next
// frame before returning the error.
package host
