package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Reader reads a model record from a .pctx file.
//
// The header is parsed when the reader is opened; the payload is read and
// checksummed only when requested.
type Reader struct {
	file        *os.File
	header      Header
	flags       uint32
	payloadSize uint64
	checksum    [ChecksumSize]byte
	opts        ReaderOptions
	closed      bool
}

// ReaderOptions configures the behavior of Reader and ReadFrom.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// fixedHeader is the decoded 64-byte preamble of a .pctx file.
type fixedHeader struct {
	flags       uint32
	headerSize  uint64
	payloadSize uint64
	checksum    [ChecksumSize]byte
}

// NewReader creates a new .pctx file reader with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions creates a new .pctx file reader with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	fixed, header, err := readHeader(file)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	//nolint:gosec // G115: payload size is bounded by MaxPayloadSize
	if err := ValidateHeader(&header, int64(fixed.payloadSize), opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &Reader{
		file:        file,
		header:      header,
		flags:       fixed.flags,
		payloadSize: fixed.payloadSize,
		checksum:    fixed.checksum,
		opts:        opts,
	}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the flags of the fixed header.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Payload reads the record payload and validates its checksum.
func (r *Reader) Payload() ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	payload := make([]byte, r.payloadSize)
	if _, err := io.ReadFull(r.file, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !r.opts.SkipChecksumValidation {
		if err := ValidateChecksum(payload, r.checksum); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Decode parses a complete .pctx encoding held in memory.
func Decode(data []byte, opts ReaderOptions) (Header, []byte, error) {
	return ReadFrom(bytes.NewReader(data), opts)
}

// ReadFrom reads a header and its payload from an io.Reader.
func ReadFrom(reader io.Reader, opts ReaderOptions) (Header, []byte, error) {
	fixed, header, err := readHeader(reader)
	if err != nil {
		return Header{}, nil, err
	}

	//nolint:gosec // G115: payload size is bounded by MaxPayloadSize
	if err := ValidateHeader(&header, int64(fixed.payloadSize), opts.ValidationLevel); err != nil {
		return Header{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	payload := make([]byte, fixed.payloadSize)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return Header{}, nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(payload, fixed.checksum); err != nil {
			return Header{}, nil, err
		}
	}

	return header, payload, nil
}

// readHeader reads the fixed header and the JSON header, leaving reader
// positioned at the start of the payload.
func readHeader(reader io.Reader) (fixedHeader, Header, error) {
	var fixed fixedHeader

	raw := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return fixed, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}

	// 0x00-0x03: magic
	if string(raw[0:4]) != MagicBytes {
		return fixed, Header{}, ErrInvalidMagic
	}

	// 0x04-0x07: version
	if version := binary.LittleEndian.Uint32(raw[4:8]); version != FormatVersion {
		return fixed, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	fixed.flags = binary.LittleEndian.Uint32(raw[8:12])
	fixed.headerSize = binary.LittleEndian.Uint64(raw[16:24])
	fixed.payloadSize = binary.LittleEndian.Uint64(raw[24:32])
	copy(fixed.checksum[:], raw[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if fixed.headerSize > MaxHeaderSize {
		return fixed, Header{}, ErrHeaderTooLarge
	}
	if fixed.payloadSize > MaxPayloadSize {
		return fixed, Header{}, ErrPayloadTooLarge
	}

	headerBytes := make([]byte, fixed.headerSize)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return fixed, Header{}, fmt.Errorf("failed to read header JSON: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return fixed, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	return fixed, header, nil
}
