package scheduler

import (
	"sort"
	"testing"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/engine"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

func intProc(sourceRef string, n int64) *process.Process {
	return process.New([]bytecode.Instruction{
		bytecode.NewUnary16(bytecode.OpPushInt, uint16(n)),
		bytecode.NewNullary(bytecode.OpHalt),
	}, sourceRef, nil)
}

func TestDrainReadySeparatesReadyFromBlocked(t *testing.T) {
	rs := rspace.NewMemorySequential()

	ready1 := intProc("ready1", 1)
	ready2 := intProc("ready2", 2)
	blocked := intProc("blocked", 3)
	blocked.AddParameter("never-solved")

	if err := rs.Tell("queue", bytecode.NewPar(ready1, blocked, ready2)); err != nil {
		t.Fatalf("Tell: %v", err)
	}

	got, err := DrainReady(rs, "queue")
	if err != nil {
		t.Fatalf("DrainReady: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d ready processes, want 2", len(got))
	}
	if got[0] != ready1 || got[1] != ready2 {
		t.Fatalf("ready processes out of order: %v", got)
	}

	// The blocked child must have been re-told, preserving order.
	v, ok, err := rs.Ask("queue")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !ok || len(v.Par) != 1 {
		t.Fatalf("got %v, want a single-child Par with the blocked process", v)
	}
}

func TestDrainReadyOnEmptyChannelIsNotAnError(t *testing.T) {
	rs := rspace.NewMemorySequential()
	got, err := DrainReady(rs, "nothing-here")
	if err != nil {
		t.Fatalf("DrainReady: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestDrainReadyRejectsNonPar(t *testing.T) {
	rs := rspace.NewMemorySequential()
	if err := rs.Tell("queue", bytecode.NewInt(42)); err != nil {
		t.Fatalf("Tell: %v", err)
	}
	if _, err := DrainReady(rs, "queue"); err == nil {
		t.Fatalf("expected a type-mismatch error for a non-Par channel value")
	}
}

func TestRunReadySkipsTerminalAndBlocked(t *testing.T) {
	rs := rspace.NewMemorySequential()
	e := engine.New(rs)

	already := intProc("already-done", 1)
	if _, err := e.Execute(already); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	blocked := intProc("blocked", 2)
	blocked.AddParameter("never-solved")

	fresh := intProc("fresh", 3)

	results := RunReady([]*process.Process{already, blocked, fresh}, e, nil)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the fresh, ready process runs)", len(results))
	}
	if results[0].Int != 3 {
		t.Fatalf("got %v, want Int(3)", results[0])
	}
}

func TestRunReadyIsReentrant(t *testing.T) {
	rs := rspace.NewMemorySequential()
	e := engine.New(rs)

	if err := rs.RegisterProcess("writer", rspace.Ready()); err != nil {
		t.Fatalf("RegisterProcess: %v", err)
	}

	reader := intProc("reader", 99)
	reader.AddParameter("writer")

	// First pass: writer unresolved, reader stays untouched.
	if got := RunReady([]*process.Process{reader}, e, nil); len(got) != 0 {
		t.Fatalf("got %d results before writer resolved, want 0", len(got))
	}
	if reader.State().Kind != rspace.StateReady {
		t.Fatalf("reader state = %v, want still Ready", reader.State().Kind)
	}

	if err := rs.UpdateProcess("writer", rspace.ValueState(bytecode.NewInt(1))); err != nil {
		t.Fatalf("UpdateProcess: %v", err)
	}

	// Second pass over the same slice: now it runs.
	got := RunReady([]*process.Process{reader}, e, nil)
	if len(got) != 1 || got[0].Int != 99 {
		t.Fatalf("got %v, want [Int(99)]", got)
	}
}

func TestRunUntilQuiescentDrainsEverything(t *testing.T) {
	rs := rspace.NewMemorySequential()
	e := engine.New(rs)

	root := bytecode.NewPar(intProc("a", 1), intProc("b", 2), intProc("c", 3))

	results, err := RunUntilQuiescent(rs, e, "root", root)
	if err != nil {
		t.Fatalf("RunUntilQuiescent: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	got := make([]int64, len(results))
	for i, v := range results {
		got[i] = v.Int
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []int64{1, 2, 3}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRunUntilQuiescentRejectsNonParRoot(t *testing.T) {
	rs := rspace.NewMemorySequential()
	e := engine.New(rs)
	if _, err := RunUntilQuiescent(rs, e, "root", bytecode.NewInt(1)); err == nil {
		t.Fatalf("expected a type-mismatch error for a non-Par root")
	}
}

func TestRunReadyParallelRunsEveryProcess(t *testing.T) {
	rs := rspace.NewMemoryConcurrent()
	e := engine.New(rs)

	procs := make([]*process.Process, 0, 10)
	for i := int64(0); i < 10; i++ {
		procs = append(procs, intProc("p", i))
	}

	results := RunReadyParallel(procs, e, 4, nil)
	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}

	seen := make(map[int64]bool)
	for _, v := range results {
		seen[v.Int] = true
	}
	for i := int64(0); i < 10; i++ {
		if !seen[i] {
			t.Fatalf("missing result %d among %v", i, results)
		}
	}
}

func TestPartitionDistributesEvenly(t *testing.T) {
	procs := make([]*process.Process, 7)
	for i := range procs {
		procs[i] = intProc("p", int64(i))
	}
	chunks := partition(procs, 3)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total != 7 {
		t.Fatalf("chunks cover %d processes, want 7", total)
	}
}
