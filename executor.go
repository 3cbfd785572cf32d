package doclai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// chunkOutcome is what one chunk task hands back to the join.
// values holds one entry per leaf of the chunk, in order.
type chunkOutcome struct {
	values     []string
	issues     []Issue
	err        error
	requested  bool // the provider was called
	translated int
	cached     int
	trivial    int
}

// executeChunks runs chunks batch by batch. Chunks of a batch run
// concurrently and the batch ends when every one of them has settled; a
// failing chunk never cancels its siblings. Outcomes keep chunk order.
func (e *Engine) executeChunks(ctx context.Context, chunks []Chunk) []chunkOutcome {
	outcomes := make([]chunkOutcome, len(chunks))
	batch := max(e.batchSize, 1)

	for start := 0; start < len(chunks); start += batch {
		end := min(start+batch, len(chunks))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						outcomes[i] = e.fallback(chunks[i], fmt.Errorf("chunk panicked: %v", r))
					}
				}()
				outcomes[i] = e.executeChunk(ctx, chunks[i])
			}(i)
		}
		wg.Wait()
	}

	return outcomes
}

// executeChunk translates the non-trivial, uncached leaves of chunk in one
// request. Any failure returns the chunk's source values unchanged.
func (e *Engine) executeChunk(ctx context.Context, chunk Chunk) chunkOutcome {
	out := chunkOutcome{values: make([]string, len(chunk.Leaves))}

	var pending []int
	for i, leaf := range chunk.Leaves {
		if isTrivial(leaf.Source) {
			out.values[i] = leaf.Source
			out.trivial++
			continue
		}
		pending = append(pending, i)
	}

	cached := e.lookupCached(chunk.Leaves, pending)
	var request []int
	for _, i := range pending {
		if v, ok := cached[i]; ok {
			out.values[i], _ = fixEdgeWhitespace(chunk.Leaves[i].Source, v)
			out.cached++
			continue
		}
		request = append(request, i)
	}
	if len(request) == 0 {
		return out
	}

	out.requested = true
	if err := ctx.Err(); err != nil {
		return e.fallback(chunk, err)
	}

	req := e.newRequest(chunk, request)
	resp, err := e.translateWithRepair(ctx, chunk, req)
	if err != nil {
		e.logger.Warn("chunk failed, keeping source text",
			"chunk", chunk.Index, "leaves", len(chunk.Leaves), "error", err)
		return e.fallback(chunk, err)
	}

	for n, i := range request {
		leaf := chunk.Leaves[i]
		text, fixed := fixEdgeWhitespace(leaf.Source, resp[strconv.Itoa(n)])
		if fixed {
			e.logger.Debug("restored edge whitespace", "address", leaf.Address.String())
		}
		out.values[i] = text
		out.translated++

		kinds := e.validator.Validate(leaf.Source, text)
		for _, k := range kinds {
			out.issues = append(out.issues, Issue{
				ChunkIndex: chunk.Index,
				LeafIndex:  i,
				Address:    leaf.Address.String(),
				Kind:       k,
			})
		}
		if len(kinds) == 0 && e.cache != nil {
			key := CacheKey(HashText(leaf.Source), e.sourceLang, e.targetLang)
			if err := e.cache.Set(key, strings.TrimSpace(text)); err != nil {
				e.logger.Debug("cache write failed", "error", &CacheError{Message: "set " + key, Cause: err})
			}
		}
	}

	return out
}

// fallback maps every leaf of chunk back to its source value.
func (e *Engine) fallback(chunk Chunk, err error) chunkOutcome {
	out := chunkOutcome{
		values:    make([]string, len(chunk.Leaves)),
		err:       &TranslationError{Message: fmt.Sprintf("chunk %d", chunk.Index), Cause: err},
		requested: true,
	}
	for i, leaf := range chunk.Leaves {
		out.values[i] = leaf.Source
	}
	return out
}

func (e *Engine) newRequest(chunk Chunk, indexes []int) TranslateRequest {
	items := make(map[string]string, len(indexes))
	contexts := make(map[string]ContextTag, len(indexes))
	for n, i := range indexes {
		key := strconv.Itoa(n)
		items[key] = chunk.Leaves[i].Source
		contexts[key] = chunk.Leaves[i].Context
	}
	return TranslateRequest{
		Items:         items,
		Contexts:      contexts,
		SourceLang:    e.sourceLang,
		TargetLang:    e.targetLang,
		Topic:         e.topic,
		Style:         e.style,
		Glossary:      e.glossary,
		ExcludedTerms: e.excludedTerms,
	}
}

// translateWithRepair sends req and, when the answer is unusable, sends it
// once more with a hint describing what was wrong.
func (e *Engine) translateWithRepair(ctx context.Context, chunk Chunk, req TranslateRequest) (map[string]string, error) {
	resp, err := e.requestChunk(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	req.RepairHint = repairHint(err)
	e.logger.Info("retrying chunk with repair hint", "chunk", chunk.Index, "attempt", 2, "error", err)
	return e.requestChunk(ctx, req)
}

func (e *Engine) requestChunk(ctx context.Context, req TranslateRequest) (map[string]string, error) {
	if e.provider == nil {
		return nil, &ProviderError{Message: "no provider configured"}
	}
	resp, err := e.provider.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	var missing []string
	for key := range req.Items {
		if _, ok := resp[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingKeyError{Keys: missing}
	}
	return resp, nil
}

func repairHint(err error) string {
	var mk *MissingKeyError
	if errors.As(err, &mk) {
		keys := append([]string(nil), mk.Keys...)
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		return fmt.Sprintf("Your previous answer omitted the keys %s. Return every key that was sent, exactly once, with its translation.",
			strings.Join(keys, ", "))
	}
	return fmt.Sprintf("Your previous answer could not be used (%v). Return only a JSON object mapping every input key to its translation.", err)
}
