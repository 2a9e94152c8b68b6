// Package cache provides TTLCache, a generic thread-safe LRU cache with
// per-entry expiry.
//
// It backs the in-process usage snapshot cache: counts read from the
// database are kept for a short TTL so repeated gate checks for the same
// seller do not hit storage on every request.
//
//	c := cache.New[string, int64](10_000)
//	c.Set("products:"+sellerID, 42, 30*time.Second)
//	if n, ok := c.Get("products:" + sellerID); ok {
//		// fresh snapshot
//	}
//
// WithClock injects a time source for tests; WithEvictCallback observes removals.
package cache
