// Package inmemorystore implements nodestore.Store in memory.
package inmemorystore
