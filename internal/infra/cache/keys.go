package cache

import (
	"fmt"
	"time"
)

// keyPrefix scopes every key so Clear cannot touch other tenants of a shared
// Redis instance.
const keyPrefix = "wimbledon:"

// TTLs per key class. Final results are historical facts, so the TTLs exist
// to bound staleness after a data-file fix, not to track a moving source.
const (
	ResultTTL = time.Hour
	YearsTTL  = 2 * time.Hour
	HealthTTL = time.Minute
)

// YearKey is the cache key for a single year's final.
func YearKey(year int) string { return fmt.Sprintf("%s%d", keyPrefix, year) }

// YearsKey is the cache key for the list of covered years.
func YearsKey() string { return keyPrefix + "years" }

// HealthKey is the cache key for the health payload.
func HealthKey() string { return keyPrefix + "health" }
