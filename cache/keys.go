package cache

import (
	"fmt"
	"strconv"
)

const (
	// ListingPrefix is the invalidation namespace shared by every post listing entry.
	ListingPrefix = "posts:page:"

	HitsKey   = "metrics:cache:hits"
	MissesKey = "metrics:cache:misses"

	noSearch = "none"
)

// ListingKey builds the cache key for one (page, limit, search, viewer) combination.
// A present search term is quoted so that searching for the literal "none" cannot collide
// with the no-search sentinel.
func ListingKey(page, limit int, search string, viewerID uint) string {
	term := noSearch
	if search != "" {
		term = strconv.Quote(search)
	}
	return fmt.Sprintf("%s%d:limit:%d:search:%s:user:%d", ListingPrefix, page, limit, term, viewerID)
}
