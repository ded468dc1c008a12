package metrics

import (
	"github.com/google/wire"
)

// ProviderSet is a Wire provider set for metrics
var ProviderSet = wire.NewSet(
	NewMetrics,
	ProvideRoleMetrics,
)

// ProvideRoleMetrics creates the role collectors and registers them
func ProvideRoleMetrics(m *Metrics) (*RoleMetrics, error) {
	rm := NewRoleMetrics()
	for _, c := range rm.Collectors() {
		if err := m.RegisterCollector(c); err != nil {
			return nil, err
		}
	}
	return rm, nil
}
