// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sgnlabs/dpos/log"
)

// maxLoggedBody bounds how much of a request body ends up in the log.
const maxLoggedBody = 1024

// RequestLoggerMiddleware logs every request while enabled is set, and any request slower
// than slowQueriesThreshold regardless. A zero threshold disables slow query logging.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// the body can be read once, so it is buffered and handed back to the handler
			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(r.Body)
				if err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "bad request body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			duration := time.Since(start)

			slow := slowQueriesThreshold > 0 && duration > slowQueriesThreshold
			if !enabled.Load() && !slow {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			ctx := []any{
				"URI", r.URL.String(),
				"Method", r.Method,
				"DurationMs", duration.Milliseconds(),
				"Body", string(body),
			}
			if slow {
				logger.Warn("slow API request", ctx...)
			} else {
				logger.Info("API request", ctx...)
			}
		})
	}
}
