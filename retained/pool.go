package retained

import "sync"

// ============================================================================
// Widget Slice Pooling
// ============================================================================
//
// Show, hide, enable and pending-event delivery walk children while
// handlers may reparent or destroy them, so they iterate over a snapshot of
// the children slice. Snapshots come from this pool to keep a full-tree
// show from allocating one slice per node.
//
// Usage:
//   children := w.childSnapshot()
//   defer releaseWidgetSlice(children)

// widgetSlicePool pools []*Widget slices to reduce allocations.
var widgetSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]*Widget, 0, 16)
	},
}

// acquireWidgetSlice gets a widget slice from the pool with at least the given length.
// The returned slice has len == n and may have cap > n.
// Caller must call releaseWidgetSlice when done.
func acquireWidgetSlice(n int) []*Widget {
	slice := widgetSlicePool.Get().([]*Widget)
	if cap(slice) < n {
		widgetSlicePool.Put(slice[:0])
		return make([]*Widget, n, n*2)
	}
	return slice[:n]
}

// releaseWidgetSlice returns a widget slice to the pool.
// The slice should not be used after calling this.
func releaseWidgetSlice(slice []*Widget) {
	if slice == nil {
		return
	}
	// Clear the slice to avoid holding references (helps GC)
	for i := range slice {
		slice[i] = nil
	}
	if cap(slice) <= 256 {
		widgetSlicePool.Put(slice[:0])
	}
}

// childSnapshot copies the children into a pooled slice.
func (w *Widget) childSnapshot() []*Widget {
	s := acquireWidgetSlice(len(w.children))
	copy(s, w.children)
	return s
}

// ============================================================================
// ID Set Pooling
// ============================================================================

// idSetPool pools the sets used to purge a subtree from the backing store.
var idSetPool = sync.Pool{
	New: func() interface{} {
		return make(map[WidgetID]bool, 32)
	},
}

func acquireIDSet() map[WidgetID]bool {
	return idSetPool.Get().(map[WidgetID]bool)
}

// releaseIDSet returns a set to the pool after clearing it.
func releaseIDSet(m map[WidgetID]bool) {
	if m == nil {
		return
	}
	clear(m)
	idSetPool.Put(m)
}
