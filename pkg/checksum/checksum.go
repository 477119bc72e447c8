package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// HashType represents different hash algorithms
type HashType string

const (
	HashTypeMD5    HashType = "md5"
	HashTypeSHA1   HashType = "sha1"
	HashTypeSHA256 HashType = "sha256"
	HashTypeSHA384 HashType = "sha384"
	HashTypeSHA512 HashType = "sha512"
)

// MismatchError is returned when a file does not have the pinned digest
type MismatchError struct {
	File     string
	Type     HashType
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for file %s: expected %s:%s, got %s:%s",
		e.File, e.Type, e.Expected, e.Type, e.Actual)
}

// DetectHashType detects the hash type from an explicit prefix or the hex length
func DetectHashType(checksum string) HashType {
	checksum = strings.TrimSpace(checksum)

	if prefix, _, ok := strings.Cut(checksum, ":"); ok {
		switch HashType(strings.ToLower(strings.TrimSpace(prefix))) {
		case HashTypeMD5:
			return HashTypeMD5
		case HashTypeSHA1:
			return HashTypeSHA1
		case HashTypeSHA256:
			return HashTypeSHA256
		case HashTypeSHA384:
			return HashTypeSHA384
		case HashTypeSHA512:
			return HashTypeSHA512
		}
	}

	if idx := strings.Index(checksum, ":"); idx >= 0 {
		checksum = strings.TrimSpace(checksum[idx+1:])
	}

	switch len(checksum) {
	case 32:
		return HashTypeMD5
	case 40:
		return HashTypeSHA1
	case 96:
		return HashTypeSHA384
	case 128:
		return HashTypeSHA512
	default:
		return HashTypeSHA256
	}
}

// CreateHasher creates the appropriate hash.Hash for the given type
func CreateHasher(hashType HashType) (hash.Hash, error) {
	switch hashType {
	case HashTypeMD5:
		return md5.New(), nil
	case HashTypeSHA1:
		return sha1.New(), nil
	case HashTypeSHA256:
		return sha256.New(), nil
	case HashTypeSHA384:
		return sha512.New384(), nil
	case HashTypeSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash type: %s", hashType)
	}
}

// ParseChecksum splits "type:value", guessing the type from the length when there is no prefix
func ParseChecksum(checksum string) (value string, hashType HashType) {
	checksum = strings.TrimSpace(checksum)
	if prefix, rest, ok := strings.Cut(checksum, ":"); ok {
		return strings.TrimSpace(rest), DetectHashType(prefix + ":")
	}
	return checksum, DetectHashType(checksum)
}

// FormatChecksum formats a checksum with its type prefix
func FormatChecksum(value string, hashType HashType) string {
	return fmt.Sprintf("%s:%s", hashType, value)
}

// CalculateFileChecksum returns the hex digest of a file
func CalculateFileChecksum(filePath string, hashType HashType) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher, err := CreateHasher(hashType)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// VerifyChecksum verifies a file against a checksum
func VerifyChecksum(filePath, expectedChecksum string) error {
	expectedValue, hashType := ParseChecksum(expectedChecksum)

	actualValue, err := CalculateFileChecksum(filePath, hashType)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	if !strings.EqualFold(actualValue, expectedValue) {
		return &MismatchError{
			File:     filepath.Base(filePath),
			Type:     hashType,
			Expected: expectedValue,
			Actual:   actualValue,
		}
	}
	return nil
}
