// Package clienttest provides an in-memory ObjectStore for tests.
package clienttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/compliance-monitor/pkg/store/client"
)

type Object struct {
	Body []byte
	Opts client.PutOptions
}

// MemoryStore is a single-bucket ObjectStore. Keys are listed in insertion
// order. Each Err field, when set, makes the matching call fail.
type MemoryStore struct {
	mu sync.Mutex

	Tags       map[string]string
	Versioning bool
	Encryption bool

	TagsErr       error
	VersioningErr error
	EncryptionErr error
	ListErr       error
	PutErr        error
	GetErr        map[string]error

	keys    []string
	objects map[string]Object

	Gets   []string
	Listed int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Tags:    map[string]string{},
		GetErr:  map[string]error{},
		objects: map[string]Object{},
	}
}

// Add stores an object without recording it as a put.
func (m *MemoryStore) Add(key string, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.objects[key] = Object{Body: []byte(body)}
}

func (m *MemoryStore) Object(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.keys...)
}

func (m *MemoryStore) GetBucketTags(_ context.Context, _ string) (map[string]string, error) {
	if m.TagsErr != nil {
		return nil, m.TagsErr
	}
	return m.Tags, nil
}

func (m *MemoryStore) GetBucketVersioning(_ context.Context, _ string) (bool, error) {
	if m.VersioningErr != nil {
		return false, m.VersioningErr
	}
	return m.Versioning, nil
}

func (m *MemoryStore) GetBucketEncryption(_ context.Context, _ string) (bool, error) {
	if m.EncryptionErr != nil {
		return false, m.EncryptionErr
	}
	return m.Encryption, nil
}

func (m *MemoryStore) ListObjects(_ context.Context, _ string, fn func(key string) bool) error {
	if m.ListErr != nil {
		return m.ListErr
	}
	for _, key := range m.Keys() {
		m.Listed++
		if !fn(key) {
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) GetObject(_ context.Context, _ string, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets = append(m.Gets, key)
	if err := m.GetErr[key]; err != nil {
		return nil, err
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return obj.Body, nil
}

func (m *MemoryStore) PutObject(_ context.Context, _ string, key string, body []byte, opts client.PutOptions) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.objects[key] = Object{Body: append([]byte{}, body...), Opts: opts}
	return nil
}

var _ client.ObjectStore = (*MemoryStore)(nil)
