package helpers

import (
	"fmt"
	"net/http"
	"time"
)

// TimeParam reads an RFC 3339 timestamp from the query string. A missing
// parameter returns (nil, nil); a malformed one returns an error naming the
// parameter.
func TimeParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
	}
	return &t, nil
}
