package serialization

import "crypto/sha256"

// ComputeChecksum computes the SHA-256 checksum of a payload.
func ComputeChecksum(payload []byte) [ChecksumSize]byte {
	return sha256.Sum256(payload)
}

// ValidateChecksum returns ErrChecksumMismatch if the payload does not hash to stored.
func ValidateChecksum(payload []byte, stored [ChecksumSize]byte) error {
	if ComputeChecksum(payload) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
