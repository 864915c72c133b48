package geoscore

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]LocationRecord
	saves   int
	loadErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]LocationRecord)}
}

func (s *fakeStore) Load(_ context.Context, key string) (LocationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return LocationRecord{}, false, s.loadErr
	}
	r, ok := s.records[key]
	return r, ok, nil
}

func (s *fakeStore) Save(_ context.Context, key string, record LocationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records[key] = record
	return nil
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type queuedJob struct {
	name    string
	payload map[string]any
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, name string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	typed, _ := payload.(map[string]any)
	q.jobs = append(q.jobs, queuedJob{name: name, payload: typed})
	return nil
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string]Object
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string]Object)}
}

func (o *fakeObjects) Put(_ context.Context, obj Object) (StoredObject, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[obj.Key] = obj
	return StoredObject{Key: obj.Key, Size: int64(len(obj.Data)), ContentType: obj.ContentType}, nil
}

func (o *fakeObjects) get(key string) (Object, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	obj, ok := o.objects[key]
	return obj, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
