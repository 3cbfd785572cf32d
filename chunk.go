package doclai

import (
	"encoding/json"
	"strconv"
)

// ChunkConfig bounds the size of a single outbound translation request.
type ChunkConfig struct {
	MaxBytes     int     // Budget for the serialized numbered map of one chunk
	InitialSize  int     // Leaves per chunk before shrinking
	MinSize      int     // Leaves per chunk never shrunk below
	ShrinkFactor float64 // Multiplier applied while the sample is over budget, in (0,1)
}

// DefaultChunkConfig returns the default chunking limits.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxBytes:     12000,
		InitialSize:  40,
		MinSize:      5,
		ShrinkFactor: 0.5,
	}
}

func (c ChunkConfig) normalized() ChunkConfig {
	d := DefaultChunkConfig()
	if c.MaxBytes <= 0 {
		c.MaxBytes = d.MaxBytes
	}
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	if c.InitialSize <= 0 {
		c.InitialSize = d.InitialSize
	}
	if c.InitialSize < c.MinSize {
		c.InitialSize = c.MinSize
	}
	if c.ShrinkFactor <= 0 || c.ShrinkFactor >= 1 {
		c.ShrinkFactor = d.ShrinkFactor
	}
	return c
}

// ChunkSize picks the number of leaves per chunk. It starts at InitialSize
// and shrinks while a numbered-map sample of the first leaves is over budget,
// stopping at MinSize.
func ChunkSize(leaves []Leaf, cfg ChunkConfig) int {
	cfg = cfg.normalized()
	size := cfg.InitialSize
	for size > cfg.MinSize {
		n := min(size, len(leaves))
		if serializedSize(leaves[:n]) <= cfg.MaxBytes {
			break
		}
		next := max(int(float64(size)*cfg.ShrinkFactor), cfg.MinSize)
		if next >= size {
			break
		}
		size = next
	}
	return size
}

// PlanChunks slices leaves into consecutive chunks of ChunkSize leaves; the
// last chunk may be shorter. A chunk still over budget afterwards is halved
// until it fits or holds a single leaf. Concatenating the chunks in order
// yields leaves exactly once.
func PlanChunks(leaves []Leaf, cfg ChunkConfig) []Chunk {
	if len(leaves) == 0 {
		return nil
	}
	cfg = cfg.normalized()
	size := ChunkSize(leaves, cfg)

	var parts [][]Leaf
	for start := 0; start < len(leaves); start += size {
		end := min(start+size, len(leaves))
		parts = append(parts, fitBudget(leaves[start:end], cfg.MaxBytes)...)
	}

	chunks := make([]Chunk, len(parts))
	offset := 0
	for i, p := range parts {
		chunks[i] = Chunk{Index: i, Offset: offset, Leaves: p}
		offset += len(p)
	}
	return chunks
}

func fitBudget(leaves []Leaf, maxBytes int) [][]Leaf {
	if len(leaves) <= 1 || serializedSize(leaves) <= maxBytes {
		return [][]Leaf{leaves}
	}
	mid := len(leaves) / 2
	return append(fitBudget(leaves[:mid], maxBytes), fitBudget(leaves[mid:], maxBytes)...)
}

// NumberedMap keys the sources of leaves "0".."n-1".
func NumberedMap(leaves []Leaf) map[string]string {
	m := make(map[string]string, len(leaves))
	for i, l := range leaves {
		m[strconv.Itoa(i)] = l.Source
	}
	return m
}

func serializedSize(leaves []Leaf) int {
	data, err := json.Marshal(NumberedMap(leaves))
	if err != nil {
		return 0
	}
	return len(data)
}
