package mock

import (
	"sync"

	"github.com/fwojciec/repub"
)

var _ repub.MediaStore = (*MediaStore)(nil)

// MediaStore is an in-memory mock implementation of repub.MediaStore.
// When the function fields are nil it behaves as a thread-safe map-backed
// store, which is what most localizer tests want.
type MediaStore struct {
	ExistsFn     func(name string) bool
	WriteImageFn func(name string, data []byte) (bool, error)

	mu     sync.Mutex
	Images map[string][]byte
}

func (m *MediaStore) Exists(name string) bool {
	if m.ExistsFn != nil {
		return m.ExistsFn(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Images[name]
	return ok
}

func (m *MediaStore) WriteImage(name string, data []byte) (bool, error) {
	if m.WriteImageFn != nil {
		return m.WriteImageFn(name, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Images == nil {
		m.Images = make(map[string][]byte)
	}
	if _, ok := m.Images[name]; ok {
		return false, nil
	}
	m.Images[name] = data
	return true, nil
}
