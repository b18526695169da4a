// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lox

// Version is the interpreter version exposed to programs as lox_version.
const Version = "0.1.0"

// VersionKey is the store metadata key holding the version that last
// opened the store.
const VersionKey = "lox_version"

// PreludeBinding names the stored text binding that replaces the prelude.
const PreludeBinding = "__prelude__"

// DefaultPrelude is evaluated into the global scope on startup unless
// WithNoStdlib is given.
const DefaultPrelude = `var lox_version = "` + Version + `";
`
