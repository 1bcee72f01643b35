// Package mocks provide pregenerated gomock files for working with tests.
// The primary goal of this pkg is to test the rainy paths of collaborators,
// which are more complicated to set up with real implementations.
package mocks

//go:generate mockgen -package mocks -destination MockSink.go go.llib.dev/rescue/pkg/sink Sink
//go:generate mockgen -package mocks -destination MockSQLRows.go go.llib.dev/rescue/pkg/traversal SQLRows
