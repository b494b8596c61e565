package utils

import (
	"io"
	"sync"
)

// flushCapableWriter is implemented by buffered writers that expose Flush.
type flushCapableWriter interface {
	Flush() error
}

// FlushingWriter forwards writes to the wrapped writer and flushes it after
// every write so interactive output appears immediately.
type FlushingWriter struct {
	underlyingWriter io.Writer
	writeMutex       sync.Mutex
}

// NewFlushingWriter wraps the provided writer. Writers that are already
// flushing writers are returned unchanged.
func NewFlushingWriter(underlyingWriter io.Writer) io.Writer {
	if underlyingWriter == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := underlyingWriter.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{underlyingWriter: underlyingWriter}
}

// Write delegates to the wrapped writer and flushes it when the writer
// supports flushing.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.underlyingWriter == nil {
		return 0, nil
	}

	flushingWriter.writeMutex.Lock()
	defer flushingWriter.writeMutex.Unlock()

	writtenByteCount, writeError := flushingWriter.underlyingWriter.Write(data)
	if writeError != nil {
		return writtenByteCount, writeError
	}

	if flushableWriter, supportsFlush := flushingWriter.underlyingWriter.(flushCapableWriter); supportsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return writtenByteCount, flushError
		}
	}

	return writtenByteCount, nil
}
