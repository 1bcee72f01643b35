// Package errorkit holds the error helpers shared across the module:
// constant sentinel errors, merging, traces and panic recovery.
package errorkit
