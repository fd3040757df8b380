package handler

import (
	"bytes"
	"sync"
)

// Response buffer sizing. A full grid summary with mutations runs to a few KB;
// buffers that grew past maxPooledBuffer are left for the GC instead of pinning
// memory in the pool.
const (
	initialBufferSize = 4 << 10
	maxPooledBuffer   = 64 << 10
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer returns buf to the pool unless it grew too large to keep
func putBuffer(buf *bytes.Buffer) bool {
	if buf.Cap() > maxPooledBuffer {
		return false
	}
	buf.Reset()
	bufferPool.Put(buf)
	return true
}
