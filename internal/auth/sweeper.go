package auth

import (
	"context"
	"time"
)

// RunSweeper purges expired sessions on a fixed interval until the context
// is cancelled. Expired sessions are also rejected lazily on access; the
// sweep only keeps the store from accumulating dead entries.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.sessions.DeleteExpired(time.Now()); removed > 0 {
				s.log.Info().Int("removed", removed).Int("remaining", s.sessions.Len()).Msg("expired sessions purged")
			}
		}
	}
}
