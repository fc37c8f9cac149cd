//go:build !windows

package main

import "go.uber.org/zap"

func logDisplayInfo(*zap.Logger) {}
