package shttp

import (
	"sync"
)

type writeKind int

const (
	writeChunk writeKind = iota
	writeEnd
)

type writeOp struct {
	kind    writeKind
	data    []byte
	pending *Pending
}

// writeQueue delivers chunks to a Conn strictly one after the other. A write is only handed to
// the connection after the previous one reported completion, so the bytes arrive in enqueue
// order no matter how the connection schedules its callbacks.
type writeQueue struct {
	conn Conn

	mu      sync.Mutex
	idle    *sync.Cond
	ops     []*writeOp
	running bool
	err     error

	onEnd   func()
	onError func(error)
}

func newWriteQueue(conn Conn, onEnd func(), onError func(error)) *writeQueue {
	q := &writeQueue{conn: conn, onEnd: onEnd, onError: onError}
	q.idle = sync.NewCond(&q.mu)
	return q
}

func (q *writeQueue) push(kind writeKind, data []byte) *Pending {
	op := &writeOp{kind: kind, data: data, pending: newPending()}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		op.pending.resolve(q.err)
		return op.pending
	}

	q.ops = append(q.ops, op)
	if !q.running {
		q.running = true
		go q.drain()
	}

	return op.pending
}

// abort fails every write that was not handed to the connection yet.
func (q *writeQueue) abort(err error) {
	for _, op := range q.detach(err) {
		op.pending.resolve(err)
	}
}

// wait blocks until no write is in flight on the connection.
func (q *writeQueue) wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.running {
		q.idle.Wait()
	}
}

// detach stops the queue and returns the writes that were still waiting.
func (q *writeQueue) detach(err error) []*writeOp {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err == nil {
		q.err = err
	}
	rest := q.ops
	q.ops = nil
	return rest
}

func (q *writeQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.ops) == 0 || q.err != nil {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		op := q.ops[0]
		q.ops = q.ops[1:]
		q.mu.Unlock()

		err := q.issue(op)
		switch {
		case err != nil:
			rest := q.detach(err)
			q.onError(err)
			for _, op := range rest {
				op.pending.resolve(err)
			}
		case op.kind == writeEnd:
			q.onEnd()
		}

		op.pending.resolve(err)
	}
}

func (q *writeQueue) issue(op *writeOp) error {
	var once sync.Once
	errc := make(chan error, 1)
	done := func(err error) { once.Do(func() { errc <- err }) }

	switch op.kind {
	case writeChunk:
		q.conn.WriteChunk(op.data, done)
	case writeEnd:
		q.conn.End(done)
	}

	return <-errc
}
