// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/sgnlabs/dpos/api/utils"
	"github.com/sgnlabs/dpos/log"
)

// LogStatus reports whether every API request is logged.
type LogStatus struct {
	Enabled bool `json:"enabled"`
}

type APILogs struct {
	enabled *atomic.Bool
}

func New(enabled *atomic.Bool) *APILogs {
	return &APILogs{enabled: enabled}
}

func (a *APILogs) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{Enabled: a.enabled.Load()})
}

func (a *APILogs) handleSetStatus(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(err)
	}
	a.enabled.Store(req.Enabled)

	log.Info("api logs updated", "pkg", "apilogs", "enabled", req.Enabled)

	return utils.WriteJSON(w, LogStatus{Enabled: req.Enabled})
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_get_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))

	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_post_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetStatus))
}
