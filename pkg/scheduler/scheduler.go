// Package scheduler implements the CORE's process scheduler (spec §4.5):
// the driver that, given an RSpace and a set of processes, makes
// progress by repeatedly selecting ready processes and handing them to
// the execution engine. It depends on pkg/engine, pkg/process, and
// pkg/rspace; it adds no new process or RSpace state of its own.
package scheduler

import (
	"log/slog"
	"sync"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/engine"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// DrainReady destructively asks channelName for a Par value, partitions
// its children into ready and not-ready, re-tells the not-ready children
// (preserving their relative order) back onto the same channel, and
// returns the ready ones. An empty or absent channel yields a nil slice,
// not an error.
func DrainReady(rs rspace.RSpace, channelName string) ([]*process.Process, error) {
	v, ok, err := rs.Ask(channelName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if v.Kind != bytecode.KindPar {
		return nil, errs.NewRuntime(errs.KindTypeMismatch, "drain_ready: channel %q did not hold a Par", channelName)
	}

	var ready []*process.Process
	var notReady []bytecode.ProcessHandle
	for _, handle := range v.Par {
		p, ok := handle.(*process.Process)
		if !ok || !p.IsReady(rs) {
			notReady = append(notReady, handle)
			continue
		}
		ready = append(ready, p)
	}

	if len(notReady) > 0 {
		if err := rs.Tell(channelName, bytecode.NewPar(notReady...)); err != nil {
			return ready, err
		}
	}
	return ready, nil
}

// RunReady executes every ready, non-terminal, non-waiting process in
// processes, in order, collecting each one's result value. Processes
// left untouched (not ready, already terminal, or waiting) are simply
// skipped -- RunReady is re-entrant and safe to call again on the same
// slice once more of them become ready. callback, if non-nil, is fired
// with each executed process's terminal ProcessEvent.
func RunReady(processes []*process.Process, e *engine.Engine, callback func(process.ProcessEvent)) []bytecode.Value {
	var results []bytecode.Value
	for _, p := range processes {
		state := p.State()
		if state.IsTerminal() || state.Kind == rspace.StateWait {
			continue
		}
		if !p.IsReady(e.RSpace) {
			continue
		}
		var v bytecode.Value
		if callback != nil {
			v, _ = e.ExecuteWithEvent(p, callback)
		} else {
			v, _ = e.Execute(p)
		}
		results = append(results, v)
	}
	return results
}

// RunUntilQuiescent seeds channelName with root, then repeatedly drains
// and runs ready processes until a whole pass drains nothing, i.e. no
// process changes state any more (spec §4.5). It returns every value
// produced, in the order processes were run.
func RunUntilQuiescent(rs rspace.RSpace, e *engine.Engine, channelName string, root bytecode.Value) ([]bytecode.Value, error) {
	if root.Kind != bytecode.KindPar {
		return nil, errs.NewRuntime(errs.KindTypeMismatch, "run_until_quiescent: root must be a Par, got %v", root.Kind)
	}
	if err := rs.Tell(channelName, root); err != nil {
		return nil, err
	}

	var results []bytecode.Value
	for pass := 1; ; pass++ {
		ready, err := DrainReady(rs, channelName)
		if err != nil {
			return results, err
		}
		if len(ready) == 0 {
			slog.Debug("scheduler: reached quiescence", "instance", e.InstanceID, "channel", channelName, "passes", pass-1)
			return results, nil
		}
		slog.Debug("scheduler: running pass", "instance", e.InstanceID, "channel", channelName, "pass", pass, "ready", len(ready))
		results = append(results, RunReady(ready, e, nil)...)
	}
}

// RunReadyParallel is the concurrency-mode (b) driver of spec §5: workers
// worker goroutines each own a disjoint slice of processes and step them
// independently against a shared concurrent RSpace. It blocks until every
// worker has finished its slice and returns the combined results; order
// across workers is not meaningful, matching the spec's "process
// execution order is not specified" guarantee.
func RunReadyParallel(processes []*process.Process, e *engine.Engine, workers int, callback func(process.ProcessEvent)) []bytecode.Value {
	if workers < 1 {
		workers = 1
	}
	if len(processes) == 0 {
		return nil
	}

	chunks := partition(processes, workers)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var results []bytecode.Value

	for i, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		wg.Add(1)
		go func(worker int, owned []*process.Process) {
			defer wg.Done()
			slog.Debug("scheduler: worker starting", "instance", e.InstanceID, "worker", worker, "processes", len(owned))
			vals := RunReady(owned, e, callback)
			slog.Debug("scheduler: worker finished", "instance", e.InstanceID, "worker", worker, "results", len(vals))
			mu.Lock()
			results = append(results, vals...)
			mu.Unlock()
		}(i, chunk)
	}
	wg.Wait()
	return results
}

// partition splits processes into at most n roughly-equal, contiguous
// chunks so each worker owns a disjoint set (spec §5's "each worker must
// own or exclusively lock the processes it steps").
func partition(processes []*process.Process, n int) [][]*process.Process {
	if n > len(processes) {
		n = len(processes)
	}
	if n == 0 {
		return nil
	}
	chunks := make([][]*process.Process, n)
	size := (len(processes) + n - 1) / n
	for i := 0; i < n; i++ {
		start := i * size
		if start >= len(processes) {
			break
		}
		end := start + size
		if end > len(processes) {
			end = len(processes)
		}
		chunks[i] = processes[start:end]
	}
	return chunks
}
