//go:build debug

package engine

const debugChecks = true
