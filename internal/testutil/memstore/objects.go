package memstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	"library-backend/internal/shared"
)

// ErrStorageDown is returned by Objects when FailDeletes is set
var ErrStorageDown = errors.New("object storage unavailable")

// Objects is an in-memory object store standing in for MinIO
type Objects struct {
	mu          sync.Mutex
	objects     map[string][]byte
	FailDeletes bool
}

func NewObjects() *Objects {
	return &Objects{objects: make(map[string][]byte)}
}

func (o *Objects) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = append([]byte(nil), data...)
	return o.ObjectURL(key), nil
}

func (o *Objects) ObjectURL(key string) string {
	if key == "" {
		return ""
	}
	return "http://objects.test/library/" + key
}

func (o *Objects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailDeletes {
		return ErrStorageDown
	}
	delete(o.objects, key)
	return nil
}

func (o *Objects) DeleteByPrefix(_ context.Context, prefix string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailDeletes {
		return ErrStorageDown
	}
	for k := range o.objects {
		if strings.HasPrefix(k, prefix) {
			delete(o.objects, k)
		}
	}
	return nil
}

func (o *Objects) Has(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.objects[key]
	return ok
}

// Tasks records enqueued background tasks
type Tasks struct {
	mu           sync.Mutex
	CoverDeletes []shared.DeleteCoverPayload
	Reconciles   int
}

func (t *Tasks) EnqueueDeleteCover(_ context.Context, payload shared.DeleteCoverPayload) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.CoverDeletes = append(t.CoverDeletes, payload)
	return nil
}

func (t *Tasks) EnqueueReconcile(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Reconciles++
	return nil
}
