package usb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hubpanel/backend/hubd/internal/hubcfg"
)

// Aggregate projects a raw topology into the merged view: child hubs sharing
// their parent's vendor id collapse into the parent as one virtual hub with a
// single flattened port numbering. The projection is a pure function of the
// input tree and the configuration snapshot; the raw topology is never
// mutated, so re-running it over the same inputs yields identical output.
func Aggregate(t *Topology, cfg *hubcfg.Snapshot) *Topology {
	out := &Topology{
		Buses:      make([]Bus, len(t.Buses)),
		Aggregated: true,
	}
	for i, b := range t.Buses {
		out.Buses[i] = Bus{Number: b.Number, Device: aggregateDevice(b.Device, "", cfg)}
	}
	return out
}

// isHub reports whether a device exposes downstream ports. The class and
// driver strings are consulted as well because a hub can enumerate before
// its port count is known.
func isHub(d *Device) bool {
	if d == nil {
		return false
	}
	return len(d.Ports) > 0 ||
		strings.Contains(strings.ToLower(d.Class), "hub") ||
		strings.Contains(strings.ToLower(d.Driver), "hub")
}

// aggregateDevice rebuilds one subtree. parentPath is the dot-separated port
// path from the bus root; the root device starts with an empty path.
func aggregateDevice(dev *Device, parentPath string, cfg *hubcfg.Snapshot) *Device {
	if dev == nil {
		return nil
	}

	prefix := parentPath
	if prefix != "" {
		prefix += "."
	}

	if len(dev.Ports) == 0 {
		return dev.clone()
	}

	hub := cfg.Lookup(dev.VendorID, dev.ProductID)

	var (
		flat     []Port // ports collected from merged same-vendor child hubs
		direct   []Port // original direct ports, kept for structural reference
		trailing []Port // the merging hub's own ports, appended after flat
		merged   int
		childIdx int
	)

	for _, p := range dev.Ports {
		path := prefix + strconv.Itoa(p.Number)

		switch {
		case p.Device == nil:
			trailing = append(trailing, Port{
				HubDevice: dev.Num,
				HubPort:   p.Number,
				Location:  path,
				Key:       hubcfg.Key(0, p.Number),
			})
			direct = append(direct, Port{Number: p.Number})

		case isHub(p.Device) && p.Device.VendorID == dev.VendorID:
			childIdx++
			merged++
			flat = append(flat, collectPorts(p.Device, path, dev.VendorID, hub, childIdx, cfg)...)

		default:
			child := aggregateDevice(p.Device, path, cfg)
			trailing = append(trailing, Port{
				Device:     child,
				HubDevice:  dev.Num,
				HubPort:    p.Number,
				Location:   path,
				Key:        hubcfg.Key(0, p.Number),
				MappedSlot: hub.MappedSlot(0, p.Number),
			})
			direct = append(direct, Port{Number: p.Number, Device: child})
		}
	}

	out := dev.clone()
	if merged == 0 {
		out.Ports = direct
		return out
	}

	// Direct devices on the merging hub trail the merged child ports. Empty
	// direct ports are dropped here: on the merging hub they are usually
	// internal wiring, while empty sockets inside merged child hubs stay
	// addressable slots.
	for _, p := range trailing {
		if p.Device != nil {
			flat = append(flat, p)
		}
	}

	flat = assignSlots(flat)

	out.Aggregated = true
	out.SubHubCount = merged + 1 // the merging hub counts itself
	out.TotalPorts = len(flat)
	out.FlatPorts = flat
	out.Ports = direct
	if hub != nil && len(hub.GridLayout) > 0 {
		out.GridLayout = hub.GridLayout
	}
	name := dev.Name
	if hub != nil && hub.Name != "" {
		name = hub.Name
	}
	out.Name = fmt.Sprintf("%s (%d ports)", name, len(flat))
	return out
}

// collectPorts gathers every descendant socket of a same-vendor child hub,
// flattening through further same-vendor hubs. The child index is fixed for
// the whole chain: a nested same-vendor hub extends its parent's key space
// rather than opening a new one. Hidden ports are dropped outright, not kept
// as gaps.
func collectPorts(dev *Device, basePath, vendorID string, hub *hubcfg.Hub, childIndex int, cfg *hubcfg.Snapshot) []Port {
	out := make([]Port, 0, len(dev.Ports))
	for _, p := range dev.Ports {
		path := basePath + "." + strconv.Itoa(p.Number)

		if hub.IsHidden(childIndex, p.Number) {
			continue
		}
		slot := hub.MappedSlot(childIndex, p.Number)

		switch {
		case p.Device == nil:
			out = append(out, Port{
				HubDevice:  dev.Num,
				HubPort:    p.Number,
				Location:   path,
				MappedSlot: slot,
				Key:        hubcfg.Key(childIndex, p.Number),
			})

		case isHub(p.Device) && p.Device.VendorID == vendorID:
			out = append(out, collectPorts(p.Device, path, vendorID, hub, childIndex, cfg)...)

		default:
			out = append(out, Port{
				Device:     aggregateDevice(p.Device, path, cfg),
				HubDevice:  dev.Num,
				HubPort:    p.Number,
				Location:   path,
				MappedSlot: slot,
				Key:        hubcfg.Key(childIndex, p.Number),
			})
		}
	}
	return out
}

// assignSlots resolves the final ordering of a flattened port list. When any
// port carries an explicit slot from configuration, every unmapped port is
// assigned the smallest slot not yet reserved, scanning left to right over
// the collection order, and the list is sorted by slot (stable, so unexpected
// ties keep collection order). Display numbers are always rewritten to the
// 1-based rank; the mapped slot stays behind as labeling metadata.
func assignSlots(ports []Port) []Port {
	mapped := false
	for _, p := range ports {
		if p.MappedSlot > 0 {
			mapped = true
			break
		}
	}

	if mapped {
		used := make(map[int]bool)
		for _, p := range ports {
			if p.MappedSlot > 0 {
				used[p.MappedSlot] = true
			}
		}
		next := 1
		for i := range ports {
			if ports[i].MappedSlot != 0 {
				continue
			}
			for used[next] {
				next++
			}
			ports[i].MappedSlot = next
			used[next] = true
			next++
		}
		sort.SliceStable(ports, func(i, j int) bool {
			return ports[i].MappedSlot < ports[j].MappedSlot
		})
	}

	for i := range ports {
		ports[i].Number = i + 1
	}
	return ports
}
