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

package shutdown

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewManager)

// Manager manages graceful shutdown state
type Manager struct {
	shuttingDown atomic.Bool
	reason       atomic.Value // string
	done         chan struct{}
}

// NewManager creates a new shutdown manager
func NewManager() *Manager {
	return &Manager{
		done: make(chan struct{}),
	}
}

// IsShuttingDown returns true if the service is shutting down
func (m *Manager) IsShuttingDown() bool {
	return m.shuttingDown.Load()
}

// Shutdown triggers graceful shutdown.
// Returns true if shutdown was triggered, false if already shutting down
func (m *Manager) Shutdown(reason string) bool {
	if !m.shuttingDown.CompareAndSwap(false, true) {
		return false
	}
	m.reason.Store(reason)
	close(m.done)
	return true
}

// Reason returns what triggered the shutdown, empty while running
func (m *Manager) Reason() string {
	if r, ok := m.reason.Load().(string); ok {
		return r
	}
	return ""
}

// Wait returns a channel closed once shutdown is triggered
func (m *Manager) Wait() <-chan struct{} {
	return m.done
}

// NotifySignals triggers shutdown on SIGHUP, SIGINT, SIGTERM or SIGQUIT.
// The returned func stops listening.
func (m *Manager) NotifySignals() func() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	stop := make(chan struct{})
	go func() {
		select {
		case sig := <-quit:
			m.Shutdown("signal: " + sig.String())
		case <-stop:
		}
	}()

	return func() {
		signal.Stop(quit)
		close(stop)
	}
}
