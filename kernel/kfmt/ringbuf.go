package kfmt

import "io"

// RingBufferSize is the size of the RingBuffer storage. It matches the
// number of cells of an 80x25 text console rounded up to a power of 2. One
// slot separates the tail from the head, so a RingBuffer holds at most
// RingBufferSize-1 bytes, which still fits a full screen of early output.
// It must always be a power of 2.
const RingBufferSize = 2048

// RingBuffer captures console output produced before a display surface is
// available. Once full, each write overwrites the oldest byte.
type RingBuffer struct {
	buffer     [RingBufferSize]byte
	head, tail int
}

// Write appends p to the buffer, discarding the oldest bytes on overflow.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.WriteByte(b)
	}

	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (rb *RingBuffer) WriteByte(b byte) error {
	rb.buffer[rb.tail] = b
	rb.tail = (rb.tail + 1) & (RingBufferSize - 1)
	if rb.head == rb.tail {
		rb.head = (rb.head + 1) & (RingBufferSize - 1)
	}

	return nil
}

// Len returns the number of unread bytes.
func (rb *RingBuffer) Len() int {
	return (rb.tail - rb.head) & (RingBufferSize - 1)
}

// Reset discards any unread bytes.
func (rb *RingBuffer) Reset() {
	rb.head, rb.tail = 0, 0
}

// Read reads up to len(p) unread bytes into p. It returns io.EOF once the
// buffer has been drained.
func (rb *RingBuffer) Read(p []byte) (n int, err error) {
	switch {
	case rb.head == rb.tail:
		return 0, io.EOF
	case rb.head < rb.tail:
		n = copy(p, rb.buffer[rb.head:rb.tail])
	default:
		// unread data wraps around; drain up to the end of the array first
		n = copy(p, rb.buffer[rb.head:])
	}

	rb.head = (rb.head + n) & (RingBufferSize - 1)
	return n, nil
}
