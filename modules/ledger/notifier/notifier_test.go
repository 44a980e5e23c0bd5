package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu       sync.Mutex
	status   int
	requests []deliverPayload
	headers  []http.Header
}

func (s *sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payload deliverPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		s.requests = append(s.requests, payload)
		s.headers = append(s.headers, r.Header.Clone())
	}
	w.WriteHeader(s.status)
}

func (s *sink) received() []deliverPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]deliverPayload(nil), s.requests...)
}

func seed(t *testing.T, repo *memory.Repository, count int) {
	t.Helper()
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	notifications := make([]*entity.Notification, 0, count)
	for i := 0; i < count; i++ {
		notifications = append(notifications, entity.NewRewardNotification("u1", fmt.Sprintf("u%d", i+2), fmt.Sprintf("e%d", i), 1, decimal.NewFromInt(12), now))
	}
	require.NoError(t, repo.CreateNotifications(context.Background(), notifications))
}

func TestFlush(t *testing.T) {
	s := &sink{status: http.StatusOK}
	server := httptest.NewServer(s)
	defer server.Close()

	repo := memory.NewRepository()
	seed(t, repo, 5)

	n, err := New(repo, server.URL+"/hooks/reward", Config{
		BatchSize: 2,
		Headers:   map[string]string{"Authorization": "Bearer sink-token"},
	})
	require.NoError(t, err)

	delivered, err := n.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, delivered)

	requests := s.received()
	require.Len(t, requests, 3)
	assert.Len(t, requests[0].Notifications, 2)
	assert.Len(t, requests[2].Notifications, 1)
	s.mu.Lock()
	assert.Equal(t, "Bearer sink-token", s.headers[0].Get("Authorization"))
	assert.Equal(t, "2", s.headers[0].Get("X-Ledger-Batch-Size"))
	assert.Equal(t, "application/json", s.headers[0].Get("Content-Type"))
	s.mu.Unlock()
	first := requests[0].Notifications[0]
	assert.Equal(t, "u1", first.AccountID)
	assert.Equal(t, "A", first.Level)
	assert.True(t, decimal.NewFromInt(12).Equal(first.Amount))
	assert.Equal(t, "You received 12.00 level A referral reward from u2", first.Message)

	pending, err := repo.GetUndeliveredNotifications(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	delivered, err = n.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Len(t, s.received(), 3)
}

func TestFlushSinkFailure(t *testing.T) {
	s := &sink{status: http.StatusBadGateway}
	server := httptest.NewServer(s)
	defer server.Close()

	repo := memory.NewRepository()
	seed(t, repo, 3)

	n, err := New(repo, server.URL, Config{BatchSize: 10})
	require.NoError(t, err)

	delivered, err := n.Flush(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.Transient))
	assert.Zero(t, delivered)

	pending, err := repo.GetUndeliveredNotifications(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestRun(t *testing.T) {
	s := &sink{status: http.StatusNoContent}
	server := httptest.NewServer(s)
	defer server.Close()

	repo := memory.NewRepository()
	seed(t, repo, 4)

	n, err := New(repo, server.URL, Config{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- n.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		pending, err := repo.GetUndeliveredNotifications(context.Background(), 10)
		return err == nil && len(pending) == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, n.Shutdown())
	require.NoError(t, <-errCh)
	assert.Len(t, s.received(), 1)
}

func TestNewRequiresWebhookURL(t *testing.T) {
	_, err := New(memory.NewRepository(), "", Config{})
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestShutdownWithoutRun(t *testing.T) {
	n, err := New(memory.NewRepository(), "http://127.0.0.1:1", Config{})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, n.Shutdown())
	assert.Less(t, time.Since(start), time.Second)
	require.NoError(t, n.Shutdown())
}
