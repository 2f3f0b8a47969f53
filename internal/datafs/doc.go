// Package datafs locates files in the service data directory and replaces them
// in one step, so a crash mid-write leaves the previous document on disk.
package datafs
