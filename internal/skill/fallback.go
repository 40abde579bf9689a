package skill

import (
	"log"
)

// RequestFunc is one attempt against an upstream endpoint.
type RequestFunc func() (any, error)

// Execute runs primary and, if it fails and a fallback is given, runs
// the fallback and returns its result (or propagates its error). With
// no fallback the primary's error is returned as-is. The upstream API
// has two endpoint families (REST-style and legacy RPC-style) exposing
// the same data; neither is reliably available for every entity, so
// every lookup tries the preferred endpoint first.
func Execute(primary, fallback RequestFunc) (any, error) {
	result, err := primary()
	if err == nil {
		return result, nil
	}
	if fallback == nil {
		return nil, err
	}
	log.Printf("[Skill] primary request failed, trying legacy endpoint: %v", err)
	return fallback()
}
