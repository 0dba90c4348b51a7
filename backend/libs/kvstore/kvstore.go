// Package kvstore is the blob persistence collaborator: whole JSON documents stored under a
// small fixed set of keys, with interchangeable Redis, Postgres and in-memory backends.
package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// Keys used by the application.
const (
	KeyPumps       = "fueltracker_pumps"
	KeyUsers       = "fueltracker_users"
	KeyCurrentUser = "fueltracker_user"
)

// Backend names accepted by configuration.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Store reads and writes opaque JSON blobs. Get reports absence with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// NormalizeBackend validates a configured backend name.
func NormalizeBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case "":
		return BackendRedis, nil
	case BackendRedis, BackendPostgres, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("kvstore: unknown backend %q", name)
	}
}
