package publisher

// Publisher hands freshly crawled product batches to downstream consumers.
// The worker publishes one message per brand per crawl; cache hits are not
// republished.
type Publisher interface {
	// Publish sends one brand's product batch, keyed by brand id.
	Publish(brandID string, batch []byte) error

	// TrimStreams caps the retained backlog after a discovery run.
	TrimStreams() error

	// Close releases the underlying connection.
	Close() error
}
