// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sgnlabs/dpos/api/admin/apilogs"
	"github.com/sgnlabs/dpos/api/admin/loglevel"
	"github.com/sgnlabs/dpos/health"

	healthAPI "github.com/sgnlabs/dpos/api/admin/health"
)

// NewHTTPHandler serves the runtime controls of a running node under /admin.
func NewHTTPHandler(logLevel *slog.LevelVar, h *health.Health, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	healthAPI.NewAPI(h).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
