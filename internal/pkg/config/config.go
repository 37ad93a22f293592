package config

import (
	"io"
	"time"
)

// Config is a read-only view of the application configuration.
//
// Values are looked up on every call, so implementations that reload their
// source (see NewViper) expose new values without a restart. Missing keys
// yield the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetArray reads a list given as a sequence or a comma separated string.
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string
}
