package driven

import "github.com/Vitor-VarelAI/threadsift/internal/core/domain"

// ClassificationCache remembers classifications by content key so identical
// posts are never sent to the model twice. Implementations must be safe for
// concurrent use.
type ClassificationCache interface {
	// Get returns the cached classification for key.
	Get(key string) (domain.Classification, bool)

	// Put stores a classification under key.
	Put(key string, c domain.Classification)

	// Len returns the number of cached entries.
	Len() int
}
