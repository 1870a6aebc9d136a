// Package cmap provides a concurrent-safe sharded map with string keys.
//
// It uses sharding to reduce lock contention under highly concurrent
// read traffic, which is the access pattern of the validation cache.
package cmap
