package httpx

import (
	"net/url"
	"strconv"
	"strings"
)

// page is a clamped limit/offset window read from a query string.
type page struct {
	Limit  int
	Offset int
}

// pageFromQuery reads limit and offset from q. Unparseable values fall back
// to the defaults; limit is kept within [1, maxLimit] and offset is never negative.
func pageFromQuery(q url.Values, defLimit, maxLimit int) page {
	maxLimit = max(maxLimit, 1)
	p := page{
		Limit:  queryInt(q, "limit", defLimit),
		Offset: max(queryInt(q, "offset", 0), 0),
	}
	p.Limit = min(max(p.Limit, 1), maxLimit)
	return p
}

func queryInt(q url.Values, key string, def int) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
