// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chai

import (
	"context"
	"sync/atomic"
)

// TurnOutcome pairs an Outcome with the turn number it answers. The
// consumer compares Turn against its current counter and discards
// stale results, since a fast reply to a later turn can arrive before
// a slow reply to an earlier one.
type TurnOutcome struct {
	Turn    uint64
	Outcome Outcome
}

// Dispatcher runs Send calls off the caller's goroutine and stamps
// each result with a monotonically increasing turn number.
//
// A new dispatch supersedes prior in-flight turns without cancelling
// them; their results still arrive and the consumer drops them by turn
// number. Nothing here blocks the caller.
type Dispatcher struct {
	client *Client
	turn   atomic.Uint64
}

// NewDispatcher wraps a client for asynchronous sends.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// CurrentTurn returns the most recently issued turn number.
func (d *Dispatcher) CurrentTurn() uint64 {
	return d.turn.Load()
}

// Dispatch starts a send for the given history on its own goroutine
// and returns the turn number assigned to it. The outcome is delivered
// on results exactly once; the channel should be buffered or drained
// promptly by the consumer's event loop.
func (d *Dispatcher) Dispatch(ctx context.Context, history []HistoryEntry, results chan<- TurnOutcome) uint64 {
	turn := d.turn.Add(1)

	// Own copy of the history so the caller may keep appending.
	snapshot := make([]HistoryEntry, len(history))
	copy(snapshot, history)

	go func() {
		outcome := d.client.Send(ctx, snapshot)
		results <- TurnOutcome{Turn: turn, Outcome: outcome}
	}()

	return turn
}

// IsStale reports whether a delivered result belongs to a superseded
// turn and should be discarded.
func (d *Dispatcher) IsStale(result TurnOutcome) bool {
	return result.Turn != d.turn.Load()
}
