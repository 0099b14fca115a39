// Package mempool provides a sized pool for []float32 buffers to reduce
// allocations on the inference hot path, where every image produces a full
// NCHW input tensor.
package mempool

import "sync"

const bucketSize = 1024

var float32Pools sync.Map // size class (int) -> *sync.Pool

// sizeClass rounds n up to the next 1KiB bucket to reduce churn.
func sizeClass(n int) int {
	if n <= bucketSize {
		return bucketSize
	}
	return (n + bucketSize - 1) / bucketSize * bucketSize
}

func poolFor(class int) *sync.Pool {
	v, _ := float32Pools.LoadOrStore(class, &sync.Pool{
		New: func() any { return make([]float32, class) },
	})
	p, _ := v.(*sync.Pool)
	return p
}

// GetFloat32 retrieves a []float32 buffer of at least n elements. The
// returned slice has length n but may have larger capacity, and its contents
// are unspecified. The caller must return it via PutFloat32 when done.
func GetFloat32(n int) []float32 {
	class := sizeClass(n)
	p := poolFor(class)
	if p == nil {
		return make([]float32, n)
	}
	buf, ok := p.Get().([]float32)
	if !ok || cap(buf) < class {
		buf = make([]float32, class)
	}
	return buf[:n]
}

// PutFloat32 returns a buffer to its pool. Passing nil is a no-op.
func PutFloat32(buf []float32) {
	if buf == nil {
		return
	}
	p := poolFor(sizeClass(cap(buf)))
	if p == nil {
		return
	}
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}
