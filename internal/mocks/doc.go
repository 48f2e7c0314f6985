// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the
// application, facilitating consistent and DRY testing across the codebase.
// Instead of defining inline mocks in individual test files, these standardized
// mock implementations can be reused.
//
// Each mock exposes one function field per interface method; when a field is
// nil the mock falls back to a simple in-memory default. When adding a new
// mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
