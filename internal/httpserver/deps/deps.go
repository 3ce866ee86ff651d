package deps

import (
	"time"

	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	Store        store.Store   // Document store backing the video API
	StoreDriver  string        // mongo, redis, badger or memory
	StreamDelay  time.Duration // Pause between two chunks of a streamed description
	ReadyTimeout time.Duration // Deadline of the store ping done by /readyz and /infra
}
