// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package chai implements the client for the CHAI conversation service.
//
// The service accepts a conversation history plus persona settings and
// returns a free-text companion reply. The client handles bearer
// authentication, bounded retry with exponential backoff for transient
// failures, client-side rate limiting, and asynchronous dispatch so the
// interface loop never blocks on the network.
package chai
