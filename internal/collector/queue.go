package collector

import (
	"errors"
	"sync"
)

// queueDepth is how many append tasks may wait behind the one being written.
const queueDepth = 256

// ErrQueueClosed is returned on the completion channel of a task enqueued
// after Close.
var ErrQueueClosed = errors.New("collector: append queue closed")

// Task is one queued append. Stamped and Source are captured at enqueue
// time so later settings changes do not rewrite history.
type Task struct {
	// Content is the text to append, without the block framing.
	Content string
	// Stamped prepends a formatted timestamp line to the block.
	Stamped bool
	// Source is the vault path the content came from, "" for direct appends.
	Source string
}

// Queue serializes append tasks onto a single worker goroutine so collector
// writes never interleave. Tasks run strictly in enqueue order; a failing
// task reports its error on its own completion channel and the queue moves
// on to the next one.
type Queue struct {
	exec func(Task) error

	mu     sync.Mutex
	closed bool
	tasks  chan queued

	done chan struct{}
}

type queued struct {
	task Task
	out  chan error
}

// NewQueue starts the worker goroutine. exec performs one append and is only
// ever called from that goroutine.
func NewQueue(exec func(Task) error) *Queue {
	q := &Queue{
		exec:  exec,
		tasks: make(chan queued, queueDepth),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for item := range q.tasks {
		item.out <- q.exec(item.task)
	}
}

// Enqueue adds a task and returns a channel that receives the task's result
// exactly once. The channel is buffered, so the result may be ignored.
// There is no cancellation: an accepted task always runs.
func (q *Queue) Enqueue(t Task) <-chan error {
	out := make(chan error, 1)
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		out <- ErrQueueClosed
		return out
	}
	q.tasks <- queued{task: t, out: out}
	q.mu.Unlock()
	return out
}

// Close stops intake and blocks until every already-accepted task has run.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	<-q.done
}
