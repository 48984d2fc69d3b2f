// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package memory provides mutex-guarded in-process stores for development
// and tests. Data does not survive a restart.
package memory
