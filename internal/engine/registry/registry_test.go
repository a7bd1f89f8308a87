package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
)

// mockEngine is a mock implementation for testing
type mockEngine struct {
	name     string
	closed   bool
	closeErr error
}

func (m *mockEngine) Init(ctx context.Context, config core.EngineConfig) error {
	return nil
}

func (m *mockEngine) Validate(ctx context.Context, rule core.Rule, files []string) (*core.ValidationResult, error) {
	return &core.ValidationResult{
		RuleID: rule.ID,
		Passed: true,
		Engine: m.name,
	}, nil
}

func (m *mockEngine) GetCapabilities() core.EngineCapabilities {
	return core.EngineCapabilities{Name: m.name}
}

func (m *mockEngine) Close() error {
	m.closed = true
	return m.closeErr
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()

	calls := 0
	require.NoError(t, r.Register("test", func() (core.Engine, error) {
		calls++
		return &mockEngine{name: "test"}, nil
	}))

	engine, err := r.Get("test")
	require.NoError(t, err)
	require.NotNil(t, engine)

	engine2, err := r.Get("test")
	require.NoError(t, err)
	assert.Same(t, engine, engine2)
	assert.Equal(t, 1, calls)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := New()
	factory := func() (core.Engine, error) { return &mockEngine{name: "test"}, nil }

	require.NoError(t, r.Register("test", factory))
	assert.Error(t, r.Register("test", factory))
}

func TestRegistry_GetNonExistent(t *testing.T) {
	_, err := New().Get("nonexistent")
	assert.Error(t, err)
}

func TestRegistry_FactoryError(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	require.NoError(t, r.Register("broken", func() (core.Engine, error) { return nil, boom }))

	_, err := r.Get("broken")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_List(t *testing.T) {
	r := New()
	for _, name := range []string{"lexical", "cleancode", "extra"} {
		n := name
		require.NoError(t, r.Register(n, func() (core.Engine, error) {
			return &mockEngine{name: n}, nil
		}))
	}

	assert.Equal(t, []string{"cleancode", "extra", "lexical"}, r.List())
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := New()
	var mu sync.Mutex
	calls := 0
	require.NoError(t, r.Register("test", func() (core.Engine, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &mockEngine{name: "test"}, nil
	}))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Get("test")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}

func TestRegistry_Close(t *testing.T) {
	r := New()
	boom := errors.New("close failed")
	require.NoError(t, r.Register("ok", func() (core.Engine, error) { return &mockEngine{name: "ok"}, nil }))
	require.NoError(t, r.Register("bad", func() (core.Engine, error) {
		return &mockEngine{name: "bad", closeErr: boom}, nil
	}))

	first, err := r.Get("ok")
	require.NoError(t, err)
	_, err = r.Get("bad")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Close(), boom)
	assert.True(t, first.(*mockEngine).closed)

	again, err := r.Get("ok")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func TestGlobal_BuiltinEngines(t *testing.T) {
	names := Global().List()
	assert.Contains(t, names, "cleancode")
	assert.Contains(t, names, "lexical")

	engine, err := Global().Get("cleancode")
	require.NoError(t, err)
	assert.Equal(t, "cleancode", engine.GetCapabilities().Name)
}

func TestRegistry_Capabilities(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("b", func() (core.Engine, error) { return &mockEngine{name: "b"}, nil }))
	require.NoError(t, r.Register("a", func() (core.Engine, error) { return &mockEngine{name: "a"}, nil }))

	caps, err := r.Capabilities()
	require.NoError(t, err)
	require.Len(t, caps, 2)
	assert.Equal(t, "a", caps[0].Name)
	assert.Equal(t, "b", caps[1].Name)

	require.NoError(t, r.Register("broken", func() (core.Engine, error) { return nil, errors.New("boom") }))
	_, err = r.Capabilities()
	assert.Error(t, err)
}
