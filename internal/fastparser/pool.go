package fastparser

import (
	"sync"
	"unsafe"
)

// fieldPool holds []string scratch slices for splitting rows into columns.
var fieldPool = sync.Pool{
	New: func() interface{} {
		s := make([]string, 0, 8)
		return &s
	},
}

// bufferPool holds []byte scratch buffers for rows that need rewriting:
// folded rows and rows with carriage returns to strip.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// getFieldSlice gets an empty []string from the pool.
func getFieldSlice() []string {
	p := fieldPool.Get().(*[]string)
	return (*p)[:0]
}

// putFieldSlice returns a []string to the pool.
// Callers must not keep references to the slice afterwards.
func putFieldSlice(fields []string) {
	const maxCapacity = 1024
	if cap(fields) > maxCapacity {
		return
	}
	// Drop references to row strings so they can be collected.
	clear(fields[:cap(fields)])
	fields = fields[:0]
	fieldPool.Put(&fields)
}

// getBuffer gets an empty []byte from the pool.
func getBuffer() []byte {
	p := bufferPool.Get().(*[]byte)
	return (*p)[:0]
}

// putBuffer returns a []byte to the pool.
func putBuffer(buf []byte) {
	const maxCapacity = 64 * 1024
	if cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	bufferPool.Put(&buf)
}

// unsafeString converts a []byte to a string without allocation.
//
// The string shares the byte array, so b must not be modified afterwards.
// It is only used on subslices of the caller's input.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
