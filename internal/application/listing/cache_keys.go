package listing

const cachePrefix = "listing:events:"

func cacheKeyEvents(hash string) string {
	return cachePrefix + hash
}
