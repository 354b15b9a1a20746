package output

import (
	"context"
	"fmt"
	"time"
)

func StatusBar(ctx context.Context, refreshRate time.Duration, printF func()) {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			printF()
		case <-ctx.Done():
			return
		}
	}
}

func PrettyReplayStatus(events, rate uint64) string {
	return fmt.Sprintf("\r%-30s %-20s",
		fmt.Sprintf("Events replayed: %8d", events),
		fmt.Sprintf("Events/s: %6d", rate),
	)
}
