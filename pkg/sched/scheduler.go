package sched

import (
	"container/heap"
	"math"
	"runtime"
	"sync"

	"main/pkg/exception"
)

// DefaultStepBudget bounds how much work a single Step invocation may do
// before the item goes back through weight selection.
const DefaultStepBudget = 50

// WorkItem is a resumable background job. Weight is recomputed freshly
// every scheduling round; Step performs up to budget units of work and
// reports whether more work remains.
type WorkItem struct {
	Name   string
	Weight func() int
	Step   func(budget int) bool
}

type entry struct {
	item    *WorkItem
	weight  int
	seq     uint64
	removed bool
}

// workHeap is a max-heap on weight. Ties go to the lowest sequence
// number; re-enqueued items receive a fresh sequence, so equal-weight
// items rotate instead of starving. Removed items sort lowest.
type workHeap []*entry

func (h workHeap) Len() int { return len(h) }

func (h workHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight > h[j].weight
	}
	return h[i].seq < h[j].seq
}

func (h workHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *workHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *workHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler executes many resumable work items on a bounded worker pool
// in approximate weighted-priority order.
type Scheduler struct {
	workers int
	budget  int

	mu     sync.Mutex
	cond   *sync.Cond
	items  workHeap
	seq    uint64
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a scheduler. workers <= 0 uses the logical core count,
// budget <= 0 the default step budget.
func New(workers, budget int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	s := &Scheduler{workers: workers, budget: budget}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Start launches the worker pool. Safe to call once; later calls no-op.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		for range s.workers {
			s.wg.Add(1)
			go s.run()
		}
	})
}

// Submit enqueues a work item for execution.
func (s *Scheduler) Submit(item *WorkItem) error {
	if item == nil {
		return exception.ErrSchedNilItem
	}
	if item.Step == nil {
		return exception.ErrSchedNilStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return exception.ErrSchedClosed
	}
	s.push(&entry{item: item})
	s.cond.Signal()
	return nil
}

// Remove marks every queued item with the given name for discard. Marked
// items sort lowest and are dropped without running.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.item.Name == name {
			e.removed = true
		}
	}
}

// Close stops intake, lets the queue drain and waits for the workers.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) push(e *entry) {
	e.seq = s.seq
	s.seq++
	heap.Push(&s.items, e)
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.items) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.items) == 0 {
			s.mu.Unlock()
			return
		}
		s.reweigh()
		e := heap.Pop(&s.items).(*entry)
		s.mu.Unlock()

		if e.removed {
			continue
		}
		if e.item.Step(s.budget) {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				continue
			}
			s.push(e)
			s.cond.Signal()
			s.mu.Unlock()
		}
	}
}

// reweigh recomputes every queued weight for this round. Must hold s.mu.
func (s *Scheduler) reweigh() {
	for _, e := range s.items {
		switch {
		case e.removed, e.item.Weight == nil:
			e.weight = math.MinInt
		default:
			e.weight = e.item.Weight()
		}
	}
	heap.Init(&s.items)
}
