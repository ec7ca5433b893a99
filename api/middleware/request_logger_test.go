// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sgnlabs/dpos/log"
)

// mockLogger records the context of Info and Warn calls.
type mockLogger struct {
	infos [][]any
	warns [][]any
}

func (m *mockLogger) With(_ ...any) log.Logger                     { return m }
func (m *mockLogger) New(_ ...any) log.Logger                      { return m }
func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any)         {}
func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any)       {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler                        { return nil }
func (m *mockLogger) Trace(_ string, _ ...any)                     {}
func (m *mockLogger) Debug(_ string, _ ...any)                     {}
func (m *mockLogger) Error(_ string, _ ...any)                     {}
func (m *mockLogger) Crit(_ string, _ ...any)                      {}
func (m *mockLogger) Info(_ string, ctx ...any)                    { m.infos = append(m.infos, ctx) }
func (m *mockLogger) Warn(_ string, ctx ...any)                    { m.warns = append(m.warns, ctx) }

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		threshold time.Duration
		delay     time.Duration
		infos     int
		warns     int
	}{
		{"enabled", true, 0, 0, 1, 0},
		{"disabled", false, 0, 0, 0, 0},
		{"slow request", false, 10 * time.Millisecond, 20 * time.Millisecond, 0, 1},
		{"fast request under threshold", false, time.Second, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			var seenBody string
			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					b, _ := io.ReadAll(r.Body)
					seenBody = string(b)
					time.Sleep(tt.delay)
					w.Write([]byte("OK"))
				}),
			)

			req := httptest.NewRequest(http.MethodPost, "/dpos/slash", strings.NewReader(`{"data":"0x01"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, `{"data":"0x01"}`, seenBody, "body must still reach the handler")
			assert.Len(t, logger.infos, tt.infos)
			assert.Len(t, logger.warns, tt.warns)

			for _, ctx := range append(logger.infos, logger.warns...) {
				assert.Contains(t, ctx, "/dpos/slash")
				assert.Contains(t, ctx, `{"data":"0x01"}`)
			}
		})
	}
}

func TestRequestLoggerTruncatesBody(t *testing.T) {
	logger := &mockLogger{}
	var enabled atomic.Bool
	enabled.Store(true)

	handler := RequestLoggerMiddleware(logger, &enabled, 0)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 4096)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if assert.Len(t, logger.infos, 1) {
		ctx := logger.infos[0]
		assert.Equal(t, strings.Repeat("a", maxLoggedBody), ctx[len(ctx)-1])
	}
}
