// Package learn is the in-memory demo service: a small video catalog with
// a streamed listing, kept apart from the favorite-video API.
package learn

import (
	"sync"

	"github.com/google/uuid"
)

// Video is a catalog entry.
type Video struct {
	ID          string `json:"id"`
	VideoName   string `json:"videoName"`
	ChannelName string `json:"channelName"`
	Duration    string `json:"duration"`
}

// Fields are the client supplied parts of a Video.
type Fields struct {
	VideoName   string `json:"videoName"`
	ChannelName string `json:"channelName"`
	Duration    string `json:"duration"`
}

// Catalog is the process-wide video list. All methods are safe for
// concurrent use; writers are serialized.
type Catalog struct {
	mu     sync.RWMutex
	videos []Video
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends a new video with a random UUIDv4 id.
func (c *Catalog) Add(f Fields) Video {
	v := Video{
		ID:          uuid.NewString(),
		VideoName:   f.VideoName,
		ChannelName: f.ChannelName,
		Duration:    f.Duration,
	}

	c.mu.Lock()
	c.videos = append(c.videos, v)
	c.mu.Unlock()
	return v
}

// All returns a snapshot of the catalog in insertion order.
func (c *Catalog) All() []Video {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Video, len(c.videos))
	copy(out, c.videos)
	return out
}

func (c *Catalog) Get(id string) (Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}

// Replace overwrites the fields of video id and stores the result.
func (c *Catalog) Replace(id string, f Fields) (Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.videos {
		if c.videos[i].ID != id {
			continue
		}
		c.videos[i].VideoName = f.VideoName
		c.videos[i].ChannelName = f.ChannelName
		c.videos[i].Duration = f.Duration
		return c.videos[i], true
	}
	return Video{}, false
}

// Delete removes video id. A missing id is a no-op.
func (c *Catalog) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.videos[:0]
	for _, v := range c.videos {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	c.videos = kept
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.mu.Lock()
	c.videos = nil
	c.mu.Unlock()
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}
