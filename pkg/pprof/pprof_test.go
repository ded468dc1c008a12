// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pprof

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_Disabled(t *testing.T) {
	s := NewServer(PprofConfig{})
	require.NoError(t, s.Start())
	assert.Empty(t, s.Addr())
	assert.NoError(t, s.Stop(context.Background()))
}

func TestServer_ServesIndex(t *testing.T) {
	s := NewServer(PprofConfig{Enable: true, Port: freePort(t)})
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	resp, err := http.Get("http://" + s.Addr() + "/debug/pprof/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPprofConfig_SetDefaults(t *testing.T) {
	c := PprofConfig{}
	c.SetDefaults()
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 6060, c.Port)
	assert.Equal(t, "/debug/pprof", c.Path)
}
