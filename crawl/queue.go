package crawl

// Queue is a BFS queue with URL deduplication. It is not safe for
// concurrent use; discovery drives it from a single goroutine.
type Queue struct {
	items []string
	seen  map[string]bool
	next  int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{seen: make(map[string]bool)}
}

// Add enqueues a URL if it hasn't been seen before and reports whether it did.
func (q *Queue) Add(url string) bool {
	if q.seen[url] {
		return false
	}
	q.seen[url] = true
	q.items = append(q.items, url)
	return true
}

// HasNext returns true if there are unprocessed URLs.
func (q *Queue) HasNext() bool {
	return q.next < len(q.items)
}

// Next returns the next unprocessed URL and advances the pointer.
func (q *Queue) Next() string {
	url := q.items[q.next]
	q.next++
	return url
}

// Len returns the total number of unique URLs seen.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns all discovered URLs in BFS order.
func (q *Queue) All() []string {
	return append([]string(nil), q.items...)
}
