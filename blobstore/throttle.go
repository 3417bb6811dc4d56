package blobstore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig holds request limits for a remote backend.
type ThrottleConfig struct {
	// MaxConcurrent is the maximum number of in-flight requests.
	// If 0, unlimited.
	MaxConcurrent int64

	// BytesPerSecond is the maximum transfer rate for Put and Get.
	// If 0, unlimited.
	BytesPerSecond int64
}

// Throttled limits concurrency and transfer rate of an underlying store.
type Throttled struct {
	inner   BlobStore
	sem     *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited
}

// NewThrottled wraps inner with the limits in cfg.
func NewThrottled(inner BlobStore, cfg ThrottleConfig) *Throttled {
	t := &Throttled{inner: inner}
	if cfg.MaxConcurrent > 0 {
		t.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	if cfg.BytesPerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSecond), int(cfg.BytesPerSecond))
	}
	return t
}

// Unwrap returns the underlying store.
func (t *Throttled) Unwrap() BlobStore { return t.inner }

func (t *Throttled) acquire(ctx context.Context) (func(), error) {
	if t.sem == nil {
		return func() {}, nil
	}
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { t.sem.Release(1) }, nil
}

// waitIO blocks until n bytes may be transferred. Requests larger than the
// burst are admitted in burst-sized steps.
func (t *Throttled) waitIO(ctx context.Context, n int) error {
	if t.limiter == nil {
		return nil
	}
	burst := t.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := t.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Put implements BlobStore.
func (t *Throttled) Put(ctx context.Context, name string, data []byte) error {
	release, err := t.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := t.waitIO(ctx, len(data)); err != nil {
		return err
	}
	return t.inner.Put(ctx, name, data)
}

// Get implements BlobStore.
func (t *Throttled) Get(ctx context.Context, name string) ([]byte, error) {
	release, err := t.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := t.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := t.waitIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// Delete implements BlobStore.
func (t *Throttled) Delete(ctx context.Context, name string) error {
	release, err := t.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return t.inner.Delete(ctx, name)
}

// List implements BlobStore.
func (t *Throttled) List(ctx context.Context, prefix string) ([]string, error) {
	release, err := t.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return t.inner.List(ctx, prefix)
}
