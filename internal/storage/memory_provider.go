package storage

import "sync"

type MemoryProvider struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{values: make(map[string][]byte)}
}

func (p *MemoryProvider) Get(key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (p *MemoryProvider) Put(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = append([]byte(nil), value...)
	return nil
}

func (p *MemoryProvider) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return nil
}

func (p *MemoryProvider) Close() error {
	return nil
}
