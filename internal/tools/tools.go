//go:build tools
// +build tools

// Package tools pins the lint and test runners used by CI to this module's go.mod.
package tools

import (
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
	_ "gotest.tools/gotestsum"
)
