package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

const libraryVersion = "0.1.0" // Current perceptronix version

// Writer writes one model record in .pctx format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .pctx file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{
		file:   file,
		closed: false,
	}, nil
}

// Write writes the header and the record payload to the file.
func (w *Writer) Write(header Header, payload []byte) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return WriteTo(w.file, header, payload)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// Encode returns the .pctx encoding of header and payload.
func Encode(header Header, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, header, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes header and payload in .pctx format to an io.Writer.
//
// FormatVersion and LibraryVersion are always overwritten; CreatedAt is set
// to the current time if zero.
func WriteTo(writer io.Writer, header Header, payload []byte) error {
	header.FormatVersion = FormatVersion
	header.LibraryVersion = libraryVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	// Marshal header to JSON
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}
	if uint64(len(payload)) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}

	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes "PCTX"
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if header.Metadata != "" {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)

	// 0x10-0x17: Header size
	binary.LittleEndian.PutUint64(fixedHeader[16:24], uint64(len(headerJSON)))

	// 0x18-0x1F: Payload size
	binary.LittleEndian.PutUint64(fixedHeader[24:32], uint64(len(payload)))

	// 0x20-0x3F: SHA-256 checksum of the payload
	checksum := ComputeChecksum(payload)
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := writer.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}
	if _, err := writer.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}

	return nil
}
