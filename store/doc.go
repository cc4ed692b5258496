// Package store implements the cora object store.
//
// This package contains:
//   - The relocatable arena backing all values in a state
//   - The handle table mapping stable handles to arena byte ranges
//   - Tagged object encoding for the eight value kinds
//   - List and map containers built on handles
//   - The global binding table and native function registry
//   - Binary image serialization
package store
