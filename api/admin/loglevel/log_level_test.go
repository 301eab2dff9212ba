// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/log"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		status    int
		wantLevel string
		wantVar   slog.Level
	}{
		{"get current", http.MethodGet, "", http.StatusOK, "info", slog.LevelInfo},
		{"set by name", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", slog.LevelDebug},
		{"set upper case", http.MethodPost, `{"level":"WARN"}`, http.StatusOK, "warn", slog.LevelWarn},
		{"set crit", http.MethodPost, `{"level":"crit"}`, http.StatusOK, "crit", log.LevelCrit},
		{"set legacy verbosity", http.MethodPost, `{"level":"5"}`, http.StatusOK, "trace", log.LevelTrace},
		{"invalid level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "", slog.LevelInfo},
		{"unknown field", http.MethodPost, `{"lvl":"debug"}`, http.StatusBadRequest, "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var level slog.LevelVar
			level.Set(slog.LevelInfo)

			router := mux.NewRouter()
			New(&level).Mount(router, "/admin/loglevel")

			req := httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantVar, level.Level())
			if tt.wantLevel == "" {
				return
			}
			var res Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
			assert.Equal(t, tt.wantLevel, res.CurrentLevel)
		})
	}
}
