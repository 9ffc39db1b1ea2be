// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrRemoteRequestFailed matches every *RemoteError via errors.Is.
var ErrRemoteRequestFailed = errors.New("remote request failed")

// maxBodyExcerpt bounds the response body kept on a RemoteError.
const maxBodyExcerpt = 512

// RemoteError describes a request that did not produce a 2xx response: the
// retry budget ran out on 429s, the service answered with a terminal status,
// or the transport failed before any response arrived (StatusCode 0).
type RemoteError struct {
	URL        string
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("request to %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
	case e.Body != "":
		return fmt.Sprintf("request to %s returned HTTP %d after %d attempt(s): %s", e.URL, e.StatusCode, e.Attempts, e.Body)
	default:
		return fmt.Sprintf("request to %s returned HTTP %d after %d attempt(s)", e.URL, e.StatusCode, e.Attempts)
	}
}

// Is reports whether target is ErrRemoteRequestFailed.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRequestFailed
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// excerpt truncates body to at most maxBodyExcerpt bytes, marking the cut.
// The cut never splits a UTF-8 sequence.
func excerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
