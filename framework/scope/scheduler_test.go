package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInit struct {
	err error
}

func (f *fakeInit) Initialize(context.Context) error { return f.err }

type plain struct{}

func classify(descs ...Descriptor) (pre, pos []Key) {
	instances := make(map[Key]any, len(descs))
	for _, d := range descs {
		instances[d.Key] = d.Factory(nil)
	}
	preTasks, posTasks := classifyWaves(descs, instances)
	for _, t := range preTasks {
		pre = append(pre, t.key)
	}
	for _, t := range posTasks {
		pos = append(pos, t.key)
	}
	return pre, pos
}

func initDesc(key Key, deps ...Key) Descriptor {
	return Provide(key, func(*Stack) any { return &fakeInit{} }, deps...)
}

func plainDesc(key Key, deps ...Key) Descriptor {
	return Provide(key, func(*Stack) any { return plain{} }, deps...)
}

// TestClassify_RootsLandInPreWave verifies dependency-free initializables
// all join the first wave.
func TestClassify_RootsLandInPreWave(t *testing.T) {
	t.Parallel()

	pre, pos := classify(initDesc("a"), initDesc("b"))
	assert.Equal(t, []Key{"a", "b"}, pre)
	assert.Empty(t, pos)
}

// TestClassify_SecondHopOnRoots verifies services depending only on
// dependency-free roots still land in the pre-wave, while a third hop
// falls to the pos-wave.
func TestClassify_SecondHopOnRoots(t *testing.T) {
	t.Parallel()

	pre, pos := classify(
		initDesc("a"),
		initDesc("b"),
		initDesc("c", "a", "b"),
		initDesc("d", "a"),
		initDesc("e", "c", "d"),
	)
	assert.Equal(t, []Key{"a", "b", "c", "d"}, pre)
	assert.Equal(t, []Key{"e"}, pos)
}

// TestClassify_NonInitializableRootCounts verifies a dependency on a
// plain instance with no dependencies does not push a service out of the
// pre-wave: the plain instance is ready the moment its factory returns.
func TestClassify_NonInitializableRootCounts(t *testing.T) {
	t.Parallel()

	pre, pos := classify(plainDesc("cfg"), initDesc("db", "cfg"))
	assert.Equal(t, []Key{"db"}, pre)
	assert.Empty(t, pos)
}

// TestClassify_PlainChainStaysCommitted verifies plain instances layered
// on committed keys stay committed, so an initializable above them still
// reaches the pre-wave.
func TestClassify_PlainChainStaysCommitted(t *testing.T) {
	t.Parallel()

	pre, pos := classify(
		plainDesc("cfg"),
		plainDesc("pool", "cfg"),
		initDesc("db", "pool"),
	)
	assert.Equal(t, []Key{"db"}, pre)
	assert.Empty(t, pos)
}

// TestClassify_UncommittedAncestor verifies a dependency on an
// initializable that itself has dependencies forces the pos-wave.
func TestClassify_UncommittedAncestor(t *testing.T) {
	t.Parallel()

	pre, pos := classify(
		initDesc("a"),
		initDesc("b", "a"),
		initDesc("c", "b"),
	)
	assert.Equal(t, []Key{"a", "b"}, pre)
	assert.Equal(t, []Key{"c"}, pos)
}

// TestClassify_PlainInstancesJoinNoWave verifies non-initializable
// instances never appear in either wave.
func TestClassify_PlainInstancesJoinNoWave(t *testing.T) {
	t.Parallel()

	pre, pos := classify(plainDesc("a"), plainDesc("b", "a"))
	assert.Empty(t, pre)
	assert.Empty(t, pos)
}

// TestRunWave_EmptyWave verifies an empty wave settles immediately.
func TestRunWave_EmptyWave(t *testing.T) {
	t.Parallel()

	require.NoError(t, runWave(context.Background(), nil))
}

// TestRunWave_SingleFailureSurfaced verifies a failing initializer is
// wrapped in ErrInitialization with the original error reachable.
func TestRunWave_SingleFailureSurfaced(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := runWave(context.Background(), []waveTask{
		{key: "ok", init: &fakeInit{}},
		{key: "bad", init: &fakeInit{err: boom}},
	})
	require.ErrorIs(t, err, ErrInitialization)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"bad"`)
}

// TestRunWave_SiblingsCompleteAfterFailure verifies a failing task does
// not stop its wave siblings from running to completion.
func TestRunWave_SiblingsCompleteAfterFailure(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{})
	late := initFunc(func(context.Context) error {
		close(ran)
		return nil
	})

	err := runWave(context.Background(), []waveTask{
		{key: "bad", init: &fakeInit{err: errors.New("boom")}},
		{key: "late", init: late},
	})
	require.ErrorIs(t, err, ErrInitialization)

	select {
	case <-ran:
	default:
		t.Fatal("sibling initializer did not run to completion")
	}
}

// initFunc adapts a function to the Initializable capability for tests.
type initFunc func(context.Context) error

func (f initFunc) Initialize(ctx context.Context) error { return f(ctx) }
