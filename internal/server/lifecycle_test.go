package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started atomic.Bool
	stopped chan struct{}
	once    sync.Once
	startFn func() error
	stopErr error
	order   *[]string
	mu      *sync.Mutex
	name    string
}

func newMock(name string, order *[]string, mu *sync.Mutex) *mockService {
	return &mockService{stopped: make(chan struct{}), order: order, mu: mu, name: name}
}

func (m *mockService) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	<-m.stopped
	return nil
}

func (m *mockService) Stop(context.Context) error {
	m.once.Do(func() { close(m.stopped) })
	if m.order != nil {
		m.mu.Lock()
		*m.order = append(*m.order, m.name)
		m.mu.Unlock()
	}
	return m.stopErr
}

func waitStarted(t *testing.T, svcs ...*mockService) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, s := range svcs {
			if !s.started.Load() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLifecycle_StopsInReverseOrderOnCancel(t *testing.T) {
	var order []string
	var mu sync.Mutex
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	svc1 := newMock("grpc", &order, &mu)
	svc2 := newMock("store", &order, &mu)
	lc.Add("grpc", svc1)
	lc.Add("store", svc2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitStarted(t, svc1, svc2)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.Equal(t, []string{"store", "grpc"}, order)
}

func TestLifecycle_ServiceFailureStopsOthers(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), 0)
	healthy := newMock("healthy", nil, nil)
	broken := newMock("broken", nil, nil)
	broken.startFn = func() error { return errors.New("bind failed") }
	lc.Add("healthy", healthy)
	lc.Add("broken", broken)

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "service broken: bind failed")

	select {
	case <-healthy.stopped:
	default:
		t.Fatal("healthy service was not stopped")
	}
}

func TestLifecycle_StopErrorReported(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	svc := newMock("grpc", nil, nil)
	svc.stopErr = errors.New("drain timeout")
	lc.Add("grpc", svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	waitStarted(t, svc)
	cancel()

	err := <-done
	assert.ErrorContains(t, err, "stopping grpc: drain timeout")
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func(context.Context) error { stopped = true; return nil },
	}
	require.NoError(t, svc.Start())
	require.NoError(t, svc.Stop(context.Background()))
	assert.True(t, started)
	assert.True(t, stopped)

	assert.NoError(t, (&FuncService{StartFn: func() error { return nil }}).Stop(context.Background()))
}
