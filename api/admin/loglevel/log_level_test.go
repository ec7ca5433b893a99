// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/log"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           any
		expectedStatus int
		expectedLevel  string
		expectedErr    string
		expectedVar    slog.Level
	}{
		{
			name:           "set level to debug",
			method:         http.MethodPost,
			body:           Request{Level: "debug"},
			expectedStatus: http.StatusOK,
			expectedLevel:  "debug",
			expectedVar:    log.LevelDebug,
		},
		{
			name:           "set level to trace",
			method:         http.MethodPost,
			body:           Request{Level: "trace"},
			expectedStatus: http.StatusOK,
			expectedLevel:  "trace",
			expectedVar:    log.LevelTrace,
		},
		{
			name:           "invalid level",
			method:         http.MethodPost,
			body:           Request{Level: "loud"},
			expectedStatus: http.StatusBadRequest,
			expectedErr:    "Invalid verbosity level",
			expectedVar:    log.LevelInfo,
		},
		{
			name:           "unknown field",
			method:         http.MethodPost,
			body:           map[string]string{"verbosity": "debug"},
			expectedStatus: http.StatusBadRequest,
			expectedVar:    log.LevelInfo,
		},
		{
			name:           "get current level",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedLevel:  "info",
			expectedVar:    log.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(log.LevelInfo)

			var body []byte
			if tt.body != nil {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(tt.method, "/admin/loglevel", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedVar, logLevel.Level())

			if tt.expectedLevel != "" {
				var res Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
				assert.Equal(t, tt.expectedLevel, res.CurrentLevel)
			}
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, strings.TrimSpace(rr.Body.String()))
			}
		})
	}
}
