// Package mocks provides hand-written mock implementations of the
// store interfaces for testing. Each mock offers sensible in-memory
// default behavior plus function fields to override individual methods.
package mocks
