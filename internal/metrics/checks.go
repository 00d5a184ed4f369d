package metrics

import (
	"context"
	"fmt"
	"time"
)

// Pinger is the slice of the fill journal the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotCounter is the slice of a replay feed the health check needs.
type SnapshotCounter interface {
	SnapshotCount() int
}

// JournalCheck probes the fill journal. The journal is unhealthy when the
// database does not answer within a short deadline.
func JournalCheck(p Pinger) HealthChecker {
	return func() Check {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			return Check{Status: "unhealthy", Message: err.Error()}
		}
		return Check{Status: "healthy"}
	}
}

// FeedCheck reports whether the replay feed has loaded market data. Before
// the replay subscribes, the feed is empty and the process is not ready.
func FeedCheck(c SnapshotCounter) HealthChecker {
	return func() Check {
		n := c.SnapshotCount()
		if n == 0 {
			return Check{Status: "unhealthy", Message: "no market data loaded"}
		}
		return Check{Status: "healthy", Message: fmt.Sprintf("%d snapshots loaded", n)}
	}
}
