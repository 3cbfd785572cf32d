package doclai

import "sync"

// ParallelCacheLookup performs cache lookups for keys concurrently and
// returns the hits. Duplicate keys are fetched once.
func ParallelCacheLookup(cache TranslationCache, keys []string) map[string]string {
	hits := make(map[string]string)
	if cache == nil || len(keys) == 0 {
		return hits
	}

	unique := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		unique[k] = struct{}{}
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for key := range unique {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			if val, ok := cache.Get(k); ok {
				mu.Lock()
				hits[k] = val
				mu.Unlock()
			}
		}(key)
	}
	wg.Wait()

	return hits
}

// lookupCached returns the cached translation of each leaf in indexes that
// has one, keyed by leaf index. Lookups go parallel from parallelThreshold
// leaves up.
func (e *Engine) lookupCached(leaves []Leaf, indexes []int) map[int]string {
	if e.cache == nil || len(indexes) == 0 {
		return nil
	}

	keys := make([]string, len(indexes))
	for n, i := range indexes {
		keys[n] = CacheKey(HashText(leaves[i].Source), e.sourceLang, e.targetLang)
	}

	var hits map[string]string
	if e.parallelThreshold > 0 && len(keys) >= e.parallelThreshold {
		hits = ParallelCacheLookup(e.cache, keys)
	} else {
		hits = make(map[string]string)
		for _, k := range keys {
			if val, ok := e.cache.Get(k); ok {
				hits[k] = val
			}
		}
	}

	found := make(map[int]string, len(hits))
	for n, i := range indexes {
		if val, ok := hits[keys[n]]; ok {
			found[i] = val
		}
	}
	return found
}
