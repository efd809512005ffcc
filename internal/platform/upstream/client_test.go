package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServer answers each request with the next status in statuses,
// repeating the last one once the script runs out.
func scriptedServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statuses[n])
		_, _ = io.WriteString(w, `{"message":"attempt"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

type delayRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (d *delayRecorder) observe(_ int, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delays = append(d.delays, delay)
}

func newTestClient(rec *delayRecorder) *Client {
	return NewClient(Config{
		Timeout:     2 * time.Second,
		MaxAttempts: 3,
		RetryDelay:  5 * time.Millisecond,
	}, WithRetryObserver(rec.observe))
}

func TestSend_RetryPolicy(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		wantStatus int
		wantCalls  int32
		wantDelays int
	}{
		{"success first time", []int{200}, 200, 1, 0},
		{"502 twice then 200", []int{502, 502, 200}, 200, 3, 2},
		{"502 exhausts budget", []int{502, 502, 502, 502}, 502, 3, 2},
		{"400 returned immediately", []int{400, 200}, 400, 1, 0},
		{"500 is not retried", []int{500}, 500, 1, 0},
		{"502 then 404", []int{502, 404}, 404, 2, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, calls := scriptedServer(t, tc.statuses...)
			rec := &delayRecorder{}

			resp, err := newTestClient(rec).Send(context.Background(), http.MethodGet, srv.URL, nil, nil)

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(calls))
			assert.Len(t, rec.delays, tc.wantDelays)
			for _, d := range rec.delays {
				assert.Equal(t, 5*time.Millisecond, d)
			}
		})
	}
}

func TestSend_RetryWaitsBetweenAttempts(t *testing.T) {
	srv, _ := scriptedServer(t, 502, 502, 200)
	client := NewClient(Config{MaxAttempts: 3, RetryDelay: 20 * time.Millisecond})

	start := time.Now()
	resp, err := client.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSend_TransportFaultIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &delayRecorder{}
	resp, err := newTestClient(rec).Send(context.Background(), http.MethodGet, url, nil, nil)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, rec.delays)
}

func TestSend_TimeoutIsTransportFault(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Config{Timeout: 20 * time.Millisecond, MaxAttempts: 3, RetryDelay: time.Millisecond})
	resp, err := client.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSend_CancelledDuringRetryDelay(t *testing.T) {
	srv, _ := scriptedServer(t, 502)
	client := NewClient(Config{MaxAttempts: 3, RetryDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	resp, err := client.Send(ctx, http.MethodGet, srv.URL, nil, nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSend_HeadersAndBody(t *testing.T) {
	var (
		gotHeader http.Header
		gotBody   map[string]any
		bodies    int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		// The body must be replayed on every attempt.
		if atomic.AddInt32(&bodies, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"result":true}`)
	}))
	defer srv.Close()

	client := NewClient(Config{RetryDelay: time.Millisecond, UserAgent: "test-agent"})
	resp, err := client.Send(
		context.Background(),
		http.MethodPost,
		srv.URL,
		QuestHeaders("tok"),
		RewardRequest{MSISDN: "0911", Language: Language, DayNumber: 4},
	)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&bodies))

	assert.Equal(t, "Bearer tok", gotHeader.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "test-agent", gotHeader.Get("User-Agent"))
	assert.Equal(t, map[string]any{"msisdn": "0911", "language": "EN", "dayNumber": float64(4)}, gotBody)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultMaxAttempts, c.maxAttempts)
	assert.Equal(t, DefaultRetryDelay, c.retryDelay)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
