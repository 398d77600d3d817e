package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ash-lang/ashc/internal/engine"
)

func double(e *engine.Engine, key engine.Key) (any, error) {
	v, err := e.Demand(engine.Key{Query: "base", Arg: key.Arg})
	if err != nil {
		return nil, err
	}
	return v.(int) * 2, nil
}

func newTestEngine() *engine.Engine {
	return engine.New(map[string]engine.Compute{
		"double": double,
	})
}

func TestDemandComputesAndMemoizes(t *testing.T) {
	e := newTestEngine()
	e.SetInput(engine.Key{Query: "base", Arg: "x"}, 21)

	v, err := e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v2, err := e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	assert.Equal(t, 42, v2)
}

func TestIdempotentSetDoesNotBumpChangedAt(t *testing.T) {
	e := newTestEngine()
	k := engine.Key{Query: "base", Arg: "x"}
	e.SetInput(k, 10)
	_, err := e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	before := e.Revision()

	e.SetInput(k, 10)
	after := e.Revision()
	assert.Greater(t, after, before, "revision always advances on SetInput")

	v, err := e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestChangedInputPropagates(t *testing.T) {
	e := newTestEngine()
	k := engine.Key{Query: "base", Arg: "x"}
	e.SetInput(k, 1)
	v, err := e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	e.SetInput(k, 5)
	v, err = e.Demand(engine.Key{Query: "double", Arg: "x"})
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestUnrelatedInputDoesNotForceRecompute(t *testing.T) {
	calls := 0
	e := engine.New(map[string]engine.Compute{
		"counted": func(e *engine.Engine, key engine.Key) (any, error) {
			calls++
			v, err := e.Demand(engine.Key{Query: "base", Arg: key.Arg})
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})
	e.SetInput(engine.Key{Query: "base", Arg: "a"}, 1)
	e.SetInput(engine.Key{Query: "base", Arg: "b"}, 2)

	_, err := e.Demand(engine.Key{Query: "counted", Arg: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Mutating an input the query never read must not force recomputation.
	e.SetInput(engine.Key{Query: "base", Arg: "b"}, 99)
	_, err = e.Demand(engine.Key{Query: "counted", Arg: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCycleDetection(t *testing.T) {
	e := engine.New(map[string]engine.Compute{
		"a": func(e *engine.Engine, key engine.Key) (any, error) {
			return e.Demand(engine.Key{Query: "b", Arg: key.Arg})
		},
		"b": func(e *engine.Engine, key engine.Key) (any, error) {
			return e.Demand(engine.Key{Query: "a", Arg: key.Arg})
		},
	})

	_, err := e.Demand(engine.Key{Query: "a", Arg: "x"})
	require.Error(t, err)
	var cycleErr *engine.CycleError
	require.ErrorAs(t, err, &cycleErr)
}
