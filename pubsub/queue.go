package pubsub

import (
	"context"
	"sync"
)

// taskQueue is an unbounded FIFO drained by one goroutine.
// push never blocks, so publishers are never held up by slow subscribers.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake  chan struct{}
	done  chan struct{}
	depth func(n int)
}

func newTaskQueue(depth func(n int)) *taskQueue {
	q := &taskQueue{
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		depth: depth,
	}
	go q.run()

	return q
}

// push appends t and reports false once the queue is closed.
func (q *taskQueue) push(t func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	q.tasks = append(q.tasks, t)
	q.depth(len(q.tasks))
	q.mu.Unlock()

	q.signal()

	return true
}

func (q *taskQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *taskQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			closed := q.closed
			q.mu.Unlock()

			if closed {
				return
			}

			<-q.wake

			continue
		}

		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.depth(len(q.tasks))
		q.mu.Unlock()

		t()
	}
}

func (q *taskQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

// flush blocks until the queue is observed empty right after one of its own
// markers runs, so tasks enqueued by running tasks are waited for as well.
// Calling flush from a queued task deadlocks.
func (q *taskQueue) flush(ctx context.Context) error {
	for {
		drained := make(chan bool, 1)
		if !q.push(func() { drained <- q.size() == 0 }) {
			return q.wait(ctx)
		}

		select {
		case empty := <-drained:
			if empty {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close stops accepting tasks; queued tasks still run.
func (q *taskQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

func (q *taskQueue) wait(ctx context.Context) error {
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
