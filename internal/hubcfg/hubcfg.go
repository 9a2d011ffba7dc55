// Package hubcfg holds the operator-provided hub layout configuration. It is
// loaded once at startup and treated as an immutable snapshot for the rest of
// the process lifetime; the aggregator receives it as an explicit read-only
// parameter.
package hubcfg

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Hub describes the physical layout of one hub model, keyed by its
// vendor/product id pair. Port keys use the "<childIndex>.<port>" form, where
// child index 0 addresses the merging hub's own direct ports.
type Hub struct {
	VendorID      string         `yaml:"vendor_id"`
	ProductID     string         `yaml:"product_id"`
	Name          string         `yaml:"name"`
	PhysicalPorts int            `yaml:"physical_ports"`
	HiddenPorts   []string       `yaml:"hidden_ports"`
	PortMap       map[string]int `yaml:"port_map"`
	GridLayout    [][]int        `yaml:"grid_layout"` // rows of slot numbers, -1 = blank cell
}

// Snapshot is the full set of configured hubs.
type Snapshot struct {
	Hubs []Hub `yaml:"hubs"`
}

// Load reads the first parseable configuration among the candidate paths.
// A missing or malformed file is never fatal: the daemon proceeds with an
// empty snapshot, which disables hiding, mapping and renaming for all hubs.
func Load(paths ...string) *Snapshot {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			log.Warn().Str("path", path).Err(err).Msg("failed to parse hub configuration")
			continue
		}
		log.Info().Str("path", path).Int("hubs", len(snap.Hubs)).Msg("loaded hub configuration")
		return &snap
	}
	log.Info().Msg("no hub configuration found, using defaults")
	return &Snapshot{}
}

// Lookup returns the configuration for a hub model, or nil if none exists.
// There is no distinction between "not configured" and "configuration failed
// to load"; both are a nil result.
func (s *Snapshot) Lookup(vendorID, productID string) *Hub {
	if s == nil {
		return nil
	}
	for i := range s.Hubs {
		if s.Hubs[i].VendorID == vendorID && s.Hubs[i].ProductID == productID {
			return &s.Hubs[i]
		}
	}
	return nil
}

// Key builds the configuration lookup key for a port.
func Key(childIndex, port int) string {
	return strconv.Itoa(childIndex) + "." + strconv.Itoa(port)
}

// IsHidden reports whether the port should be dropped from the aggregated
// view entirely. Nil-safe so callers can pass an absent configuration.
func (h *Hub) IsHidden(childIndex, port int) bool {
	if h == nil {
		return false
	}
	key := Key(childIndex, port)
	for _, hidden := range h.HiddenPorts {
		if hidden == key {
			return true
		}
	}
	return false
}

// MappedSlot returns the configured physical slot for a port, or 0 when the
// port has no explicit mapping.
func (h *Hub) MappedSlot(childIndex, port int) int {
	if h == nil || h.PortMap == nil {
		return 0
	}
	return h.PortMap[Key(childIndex, port)]
}
