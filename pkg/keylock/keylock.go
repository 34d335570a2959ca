package keylock

import "sync"

// KeyLock взаимное исключение по ключу: операции с одним ключом
// сериализуются, операции с разными ключами не конкурируют.
// Запись для ключа создаётся лениво и удаляется, когда её никто
// не держит и не ждёт.
type KeyLock struct {
	mu      sync.Mutex
	entries map[int]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{
		entries: make(map[int]*entry),
	}
}

func (l *KeyLock) Lock(key int) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *KeyLock) Unlock(key int) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		l.mu.Unlock()
		panic("keylock: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}

// Len возвращает количество живых записей.
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
