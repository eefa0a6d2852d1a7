package filesystem

import (
	"sync"
	"time"
)

// selfWriteWindow: сколько времени событие файловой системы по имени,
// записанному самим репозиторием, считается эхом этой записи
const selfWriteWindow = 2 * time.Second

// recentWrites помнит имена файлов, которые репозиторий только что
// записал или удалил.
type recentWrites struct {
	mu     sync.Mutex
	names  map[string]time.Time
	window time.Duration
	now    func() time.Time
}

func newRecentWrites(window time.Duration) *recentWrites {
	return &recentWrites{
		names:  make(map[string]time.Time),
		window: window,
		now:    time.Now,
	}
}

func (rw *recentWrites) mark(name string) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	now := rw.now()
	for stored, at := range rw.names {
		if now.Sub(at) > rw.window {
			delete(rw.names, stored)
		}
	}
	rw.names[name] = now
}

func (rw *recentWrites) contains(name string) bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	at, ok := rw.names[name]
	if !ok {
		return false
	}
	if rw.now().Sub(at) > rw.window {
		delete(rw.names, name)
		return false
	}
	return true
}
