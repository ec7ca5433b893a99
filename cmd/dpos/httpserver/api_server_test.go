// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/thor"
)

func TestHandleXGenesisID(t *testing.T) {
	id := thor.Bytes32{0xde, 0xad}
	handler := handleXGenesisID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}), id)

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"no id", "", "", http.StatusOK},
		{"matching header", id.String(), "", http.StatusOK},
		{"matching header upper case", strings.ToUpper(id.String()), "", http.StatusOK},
		{"matching query", "", id.String(), http.StatusOK},
		{"mismatch", thor.Bytes32{0x01}.String(), "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/dpos/status"
			if tt.query != "" {
				target += "?x-genesis-id=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("x-genesis-id", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, id.String(), rr.Header().Get("x-genesis-id"))
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	handler := requestBodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		}
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", maxBodySize+1))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStartAPIServer(t *testing.T) {
	var deadline bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
		w.Write([]byte("ok"))
	})
	url, closeFunc, err := StartAPIServer("localhost:0", handler, thor.Bytes32{}, time.Second)
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url + "dpos/status")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, "ok", string(body))
	assert.True(t, deadline)
}
