package scope

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// waveTask pairs an Initializable instance with its key for error context.
type waveTask struct {
	key  Key
	init Initializable
}

// classifyWaves splits the Initializable instances among the sorted
// descriptors into two waves.
//
// Walking in sorted order, a key is committed once it is known to be
// settled the moment the first wave starts: it declares no dependencies,
// or it needs no asynchronous setup and everything it depends on is
// already committed. An Initializable whose dependencies are all committed
// joins the pre-wave; anything resting on an uncommitted ancestor — for
// example a chain of initializers three hops deep — falls to the
// pos-wave and runs only after the pre-wave has fully settled.
func classifyWaves(sorted []Descriptor, instances map[Key]any) (pre, pos []waveTask) {
	committed := make(map[Key]bool, len(sorted))
	for _, d := range sorted {
		init, initializable := instances[d.Key].(Initializable)

		ready := true
		for _, dep := range d.DependsOn {
			if !committed[dep] {
				ready = false
				break
			}
		}

		if !initializable {
			// Ready as soon as its factory returned, as long as nothing
			// beneath it is still initializing.
			committed[d.Key] = ready
			continue
		}

		if len(d.DependsOn) == 0 {
			committed[d.Key] = true
			pre = append(pre, waveTask{key: d.Key, init: init})
			continue
		}
		if ready {
			// Admitted through the committed set, but its own
			// asynchronous work keeps it from being committed itself.
			pre = append(pre, waveTask{key: d.Key, init: init})
			continue
		}
		pos = append(pos, waveTask{key: d.Key, init: init})
	}
	return pre, pos
}

// runWave launches every task concurrently and waits for all of them to
// settle. In-flight initializers are never cancelled: the group carries no
// shared context, so a failing task does not stop its siblings. The first
// observed error is returned wrapped in ErrInitialization; later failures
// in the same wave are discarded.
func runWave(ctx context.Context, tasks []waveTask) error {
	if len(tasks) == 0 {
		return nil
	}
	var g errgroup.Group
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := t.init.Initialize(ctx); err != nil {
				return fmt.Errorf("%w: %q: %w", ErrInitialization, t.key, err)
			}
			return nil
		})
	}
	return g.Wait()
}
