package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fakeChat replays canned replies in call order and records requests.
type fakeChat struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	calls    []ChatRequest
	notReady bool
}

func (f *fakeChat) Ready() error {
	if f.notReady {
		return ConfigurationError("API key not configured")
	}
	return nil
}

func (f *fakeChat) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var testModels = Models{Vision: "vision-model", Light: "light-model"}

// fixedNow is mid-day so the whole local day is around it.
var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func nopLogger() *zap.Logger { return zap.NewNop() }
