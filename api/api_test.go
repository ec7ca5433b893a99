// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/genesis"
)

func TestRoutes(t *testing.T) {
	handler, closeFunc := New(newHost(t), Options{AllowedOrigins: "*", BacktraceLimit: 100})
	ts := httptest.NewServer(handler)
	defer func() {
		ts.Close()
		closeFunc()
	}()

	acc := genesis.DevAccounts()[0].Address.String()
	tests := []struct {
		path string
		code int
	}{
		{"/dpos/status", http.StatusOK},
		{"/dpos/validators", http.StatusOK},
		{"/dpos/candidates/" + acc, http.StatusOK},
		{"/tokens/" + acc, http.StatusOK},
		{"/debug/pprof/", http.StatusNotFound},
		{"/accounts/" + acc, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, code := httpGet(t, ts.URL+tt.path)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestPprof(t *testing.T) {
	handler, closeFunc := New(newHost(t), Options{PprofOn: true})
	ts := httptest.NewServer(handler)
	defer func() {
		ts.Close()
		closeFunc()
	}()

	_, code := httpGet(t, ts.URL+"/debug/pprof/")
	assert.Equal(t, http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	handler, closeFunc := New(newHost(t), Options{AllowedOrigins: "https://Example.org, https://other.org"})
	ts := httptest.NewServer(handler)
	defer func() {
		ts.Close()
		closeFunc()
	}()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/dpos/status", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.org")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
