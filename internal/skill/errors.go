package skill

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the upstream API answers 401. The
// HTTP layer maps it to a 401 so the UI clears its stored token and
// returns to the login screen.
var ErrUnauthorized = errors.New("skill: unauthorized")

// APIError carries the upstream response for any other non-2xx answer.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("skill: upstream error %s: %s", e.Status, e.Body)
}
