// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package sirio

import "github.com/oris-tool/sirio-sub002/enum"

// Logger is the analysis-facing logging capability; it is the same shape
// as enum.Logger so callers can pass either one through directly.
type Logger = enum.Logger

// NoopLogger discards every message.
var NoopLogger = enum.NoopLogger
