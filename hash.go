package doclai

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// CacheKey identifies the translation of a text hash between two languages.
func CacheKey(hash, sourceLang, targetLang string) string {
	return hash + ":" + NormalizeLocale(sourceLang) + ":" + NormalizeLocale(targetLang)
}
