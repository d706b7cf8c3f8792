// Package provenance stamps generated documents with their origin: generation
// time, tool version and a SHA-256 of the document body.
package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart is the start of the provenance block.
	TagStart = "<!-- PROVENANCE_START"
	// TagEnd is the end of the provenance block.
	TagEnd = "PROVENANCE_END -->"

	// Version identifies the generating tool.
	Version = "nycovid-explorer/1.0"
)

// Provenance verification errors.
var (
	ErrNoProvenanceBlock = errors.New("no provenance block found")
	ErrNoHashFound       = errors.New("no hash found in provenance block")
	ErrHashMismatch      = errors.New("hash mismatch")
)

// Stamp contains the document origin information.
type Stamp struct {
	GeneratedAt time.Time
	Version     string
	Source      string
	Hash        string
}

// stampRegex matches the entire provenance block including tags.
var stampRegex = regexp.MustCompile(`(?s)<!--\s*PROVENANCE_START\s*\n(.*?)\n\s*PROVENANCE_END\s*-->`)

// Extract removes the provenance block from content and returns both the
// stamp and the cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Stamp, string) {
	match := stampRegex.FindStringSubmatch(content)
	cleanContent := stampRegex.ReplaceAllString(content, "")
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	stamp := &Stamp{}

	for _, line := range strings.Split(match[1], "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				stamp.GeneratedAt = t
			}
		case "VERSION":
			stamp.Version = val
		case "SOURCE":
			stamp.Source = val
		case "HASH":
			stamp.Hash = val
		}
	}

	return stamp, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content, excluding any
// provenance block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign appends or replaces the provenance block with a fresh hash and
// timestamp.
func Sign(content, source string) string {
	_, clean := Extract(content)

	hash := CalculateHash(clean)
	now := time.Now().UTC().Format(time.RFC3339)

	block := fmt.Sprintf("\n%s\nGENERATED_AT: %s\nVERSION: %s\nSOURCE: %s\nHASH: %s\n%s\n",
		TagStart, now, Version, source, hash, TagEnd)

	return clean + block
}

// Verify checks if the content matches the hash in its provenance block.
func Verify(content string) (bool, error) {
	stamp, clean := Extract(content)
	if stamp == nil {
		return false, ErrNoProvenanceBlock
	}

	if stamp.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != stamp.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, stamp.Hash, calculated)
	}

	return true, nil
}
