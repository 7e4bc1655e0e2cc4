package app

import "sync"

// ChatLimiter runs the work of one chat strictly in arrival order, one item at a time,
// while different chats proceed in parallel.
type ChatLimiter struct {
	mu   sync.Mutex
	byID map[int64]*chatQueue
	wg   sync.WaitGroup
}

type chatQueue struct {
	pending []func()
}

func NewChatLimiter() *ChatLimiter {
	return &ChatLimiter{byID: make(map[int64]*chatQueue)}
}

// Go queues fn behind earlier work of chatID.
func (l *ChatLimiter) Go(chatID int64, fn func()) {
	l.mu.Lock()
	q, running := l.byID[chatID]
	if !running {
		q = &chatQueue{}
		l.byID[chatID] = q
	}
	q.pending = append(q.pending, fn)
	l.mu.Unlock()
	if running {
		return
	}
	l.wg.Add(1)
	go l.drain(chatID, q)
}

func (l *ChatLimiter) drain(chatID int64, q *chatQueue) {
	defer l.wg.Done()
	for {
		l.mu.Lock()
		if len(q.pending) == 0 {
			delete(l.byID, chatID)
			l.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		l.mu.Unlock()
		fn()
	}
}

// Wait blocks until every queued item has run.
func (l *ChatLimiter) Wait() { l.wg.Wait() }
