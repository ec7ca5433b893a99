// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/api/utils"
	"github.com/sgnlabs/dpos/health"
)

type API struct {
	health *health.Health
}

func NewAPI(h *health.Health) *API {
	return &API{health: h}
}

func (a *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	var maxTimeBetweenBlocks time.Duration
	if v := r.URL.Query().Get("maxTimeBetweenBlocks"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxTimeBetweenBlocks"))
		}
		maxTimeBetweenBlocks = parsed
	}

	status := a.health.Status(maxTimeBetweenBlocks)

	w.Header().Set("Content-Type", utils.JSONContentType)
	if status.Healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return json.NewEncoder(w).Encode(status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
