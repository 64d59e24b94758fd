//go:build tools

// Package tools pins the code generators behind the go:generate lines in
// pkg/clock, pkg/config and pkg/logger.
package tools

import (
	_ "github.com/dmarkham/enumer"
	_ "go.uber.org/mock/mockgen"
)
