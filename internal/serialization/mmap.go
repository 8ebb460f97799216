package serialization

import (
	"bytes"
	"fmt"
	"os"
)

// MmapReader provides memory-mapped access to .pctx files.
//
// The header is parsed from the mapping on open. Payload returns a view into
// the mapping, so large models are decoded straight from the OS page cache
// without an intermediate copy.
type MmapReader struct {
	file     *os.File
	data     []byte // mmap'd region (read-only)
	header   Header
	flags    uint32
	payload  []byte // view of data
	checksum [ChecksumSize]byte
	opts     ReaderOptions
	closed   bool
}

// NewMmapReader maps the file at path read-only and parses its header.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewMmapReader(path string, opts ReaderOptions) (*MmapReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < FixedHeaderSize {
		_ = file.Close()
		return nil, fmt.Errorf("file too small: %d bytes (minimum %d bytes required)", stat.Size(), FixedHeaderSize)
	}

	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &MmapReader{file: file, data: data, opts: opts}
	if err := r.parse(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return r, nil
}

func (r *MmapReader) parse() error {
	fixed, header, err := readHeader(bytes.NewReader(r.data))
	if err != nil {
		return err
	}

	start := uint64(FixedHeaderSize) + fixed.headerSize
	end := start + fixed.payloadSize
	if end > uint64(len(r.data)) {
		return fmt.Errorf("payload extends beyond file: payload_end=%d, file_size=%d", end, len(r.data))
	}

	//nolint:gosec // G115: payload size is bounded by MaxPayloadSize
	if err := ValidateHeader(&header, int64(fixed.payloadSize), r.opts.ValidationLevel); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	r.header = header
	r.flags = fixed.flags
	r.checksum = fixed.checksum
	r.payload = r.data[start:end:end]
	return nil
}

// Header returns the file header.
func (r *MmapReader) Header() Header {
	return r.header
}

// Flags returns the flags of the fixed header.
func (r *MmapReader) Flags() uint32 {
	return r.flags
}

// Payload validates the checksum and returns a zero-copy view of the record.
// The slice is valid only while the reader is open and must not be modified.
func (r *MmapReader) Payload() ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	if !r.opts.SkipChecksumValidation {
		if err := ValidateChecksum(r.payload, r.checksum); err != nil {
			return nil, err
		}
	}
	return r.payload, nil
}

// Close unmaps and closes the file.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.payload = nil

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
