package domain

import "time"

// Metrics receives gateway observations. Implementations live in
// internal/infra/telemetry.
type Metrics interface {
	ObserveRequest(method string, duration time.Duration, err error)
	ObserveFetch(skill string, duration time.Duration, err error)
	ObserveCacheLookup(skill string, hit bool)
}
