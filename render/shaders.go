// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import _ "embed"

// Embedded toolkit mesh shader source.
//
//go:embed shaders/mesh.wgsl
var meshShaderSource string
