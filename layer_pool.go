package ink

import "sync"

// LayerPool reuses scratch layers of identical size.
//
// Layers are grouped by their dimensions. Layers handed out by Get are
// always fully transparent.
//
// Thread safety: All methods are safe for concurrent use.
type LayerPool struct {
	mu      sync.Mutex
	buckets map[[2]int][]*Layer
	maxSize int
}

// NewLayerPool creates a pool retaining at most maxPerBucket layers of each
// size. A maxPerBucket of 0 means unlimited.
func NewLayerPool(maxPerBucket int) *LayerPool {
	return &LayerPool{
		buckets: make(map[[2]int][]*Layer),
		maxSize: maxPerBucket,
	}
}

// Get returns a transparent layer of the given size.
func (p *LayerPool) Get(width, height int) *Layer {
	key := [2]int{width, height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		l := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return l
	}
	p.mu.Unlock()

	return NewLayer(width, height)
}

// Put returns l to the pool. Only the area written through layer methods
// since its last full clear is cleared again; pixels written through
// [Layer.Image] must be cleared by the caller. Nil layers are ignored, and
// layers beyond the bucket capacity are discarded.
func (p *LayerPool) Put(l *Layer) {
	if l == nil {
		return
	}
	l.observer = nil
	l.Clear(FromImageRect(l.used))

	key := [2]int{l.Width(), l.Height()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, l)
}

// defaultLayerPool backs [ScratchLayer] and [ReleaseLayer].
var defaultLayerPool = NewLayerPool(4)

// ScratchLayer returns a transparent layer from the default pool.
func ScratchLayer(width, height int) *Layer {
	return defaultLayerPool.Get(width, height)
}

// ReleaseLayer returns a scratch layer to the default pool.
func ReleaseLayer(l *Layer) {
	defaultLayerPool.Put(l)
}
