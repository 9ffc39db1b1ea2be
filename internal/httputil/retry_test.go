// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep returns a sleep func that records waits instead of sleeping.
func recordingSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var waits []time.Duration
	resp, err := DoWithRetry(context.Background(), ts.Client().Do, req, RetryPolicy{
		MaxAttempts: 3, Backoff: time.Second, Sleep: recordingSleep(&waits),
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, waits)
}

func TestDoWithRetry_RetriesThen200WithLinearBackoff(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var waits []time.Duration
	var retried []int
	resp, err := DoWithRetry(context.Background(), ts.Client().Do, req, RetryPolicy{
		MaxAttempts: 3,
		Backoff:     200 * time.Millisecond,
		Sleep:       recordingSleep(&waits),
		OnRetry:     func(attempt int, _ time.Duration) { retried = append(retried, attempt) },
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, waits)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoWithRetry_ExhaustsAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var waits []time.Duration
	_, err = DoWithRetry(context.Background(), ts.Client().Do, req, RetryPolicy{
		MaxAttempts: 3, Backoff: time.Second, Sleep: recordingSleep(&waits),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteRequestFailed)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusTooManyRequests, re.StatusCode)
	assert.Equal(t, 3, re.Attempts)
	assert.Equal(t, "slow down", re.Body)

	// Exactly MaxAttempts network calls, with a wait between each pair.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
}

func TestDoWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client().Do, req, RetryPolicy{MaxAttempts: 5, Backoff: 5 * time.Second})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetry_DefaultMaxAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var waits []time.Duration
	_, err = DoWithRetry(context.Background(), ts.Client().Do, req, RetryPolicy{Sleep: recordingSleep(&waits)})
	assert.ErrorIs(t, err, ErrRemoteRequestFailed)
	assert.Equal(t, int32(DefaultMaxAttempts), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_Non429IsTerminal(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(context.Background(), ts.Client().Do, req, RetryPolicy{MaxAttempts: 5})

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, 1, re.Attempts)
	assert.Len(t, re.Body, maxBodyExcerpt+len("..."))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_TransportErrorIsTerminal(t *testing.T) {
	var calls int
	boom := errors.New("connection reset")
	send := func(*http.Request) (*http.Response, error) {
		calls++
		return nil, boom
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/x", nil)
	require.NoError(t, err)

	_, err = DoWithRetry(context.Background(), send, req, RetryPolicy{MaxAttempts: 3})
	assert.ErrorIs(t, err, ErrRemoteRequestFailed)
	assert.ErrorIs(t, err, boom)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestRemoteErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RemoteError
		want string
	}{
		{
			name: "status with body",
			err:  &RemoteError{URL: "http://x/a", StatusCode: 404, Body: "not found", Attempts: 1},
			want: "request to http://x/a returned HTTP 404 after 1 attempt(s): not found",
		},
		{
			name: "status without body",
			err:  &RemoteError{URL: "http://x/a", StatusCode: 429, Attempts: 3},
			want: "request to http://x/a returned HTTP 429 after 3 attempt(s)",
		},
		{
			name: "transport failure",
			err:  &RemoteError{URL: "http://x/a", Attempts: 1, Err: errors.New("dial tcp")},
			want: "request to http://x/a failed after 1 attempt(s): dial tcp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt([]byte("short")))

	ascii := strings.Repeat("a", maxBodyExcerpt+10)
	assert.Equal(t, ascii[:maxBodyExcerpt]+"...", excerpt([]byte(ascii)))

	// A two-byte rune straddles the limit.
	body := strings.Repeat("a", maxBodyExcerpt-1) + "é" + "tail"
	got := excerpt([]byte(body))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxBodyExcerpt-1)+"...", got)
}
