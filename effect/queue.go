package effect

import (
	"container/heap"
	"time"
)

// expiry is a pending deactivation. gen pins it to one activation so a stale
// entry left behind by an early deactivation never ends a newer instance.
type expiry struct {
	at  time.Duration
	key Key
	gen uint64
}

// expiryQueue is a min-heap on expiry time, ties broken by activation order.
type expiryQueue []expiry

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].gen < q[j].gen
	}
	return q[i].at < q[j].at
}

func (q expiryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) { *q = append(*q, x.(expiry)) }

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

func (q *expiryQueue) schedule(e expiry) { heap.Push(q, e) }

// due pops every entry at or before now.
func (q *expiryQueue) due(now time.Duration) []expiry {
	var out []expiry
	for q.Len() > 0 && (*q)[0].at <= now {
		out = append(out, heap.Pop(q).(expiry))
	}
	return out
}

func (q *expiryQueue) clear() { *q = (*q)[:0] }
