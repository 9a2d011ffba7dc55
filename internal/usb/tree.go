package usb

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// /:  Bus 001.Port 001: Dev 001, Class=root_hub, Driver=xhci_hcd/6p, 480M
	rootHubRe = regexp.MustCompile(`^/:  Bus (\d+)\.Port (\d+): Dev (\d+), Class=([^,]+), Driver=([^,]+), (\d+M?)`)
	// |__ Port 003: Dev 009, If 0, Class=Hub, Driver=hub/7p, 480M
	// The interface and class/driver groups are both optional.
	childRe = regexp.MustCompile(`^(\s*)\|__ Port (\d+): Dev (\d+)(?:, If (\d+))?, (?:Class=([^,]+), Driver=([^,]+), )?(\d+M?)`)
	// Port count suffix on hub driver strings, e.g. "hub/7p".
	portCountRe = regexp.MustCompile(`/(\d+)p`)
)

// ParseTree reconstructs the rooted bus/hub/device forest from the indented
// tree listing (`lsusb -t`). Depth is encoded as four columns of indentation
// per level; an explicit per-depth ancestor stack replaces recursion over the
// text. Descriptive fields come from the registry built by ParseDeviceList;
// a missing lookup leaves them empty. No line ever aborts the parse: lines
// matching neither pattern, and device lines whose parent depth is not open
// on the stack, are skipped.
func ParseTree(text string, registry map[string]DeviceInfo) *Topology {
	topology := &Topology{Buses: make([]Bus, 0)}

	var parentStack []*Device
	currentBus := -1
	seen := make(map[string]bool)

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}

		if m := rootHubRe.FindStringSubmatch(line); m != nil {
			bus, _ := strconv.Atoi(m[1])
			dev, _ := strconv.Atoi(m[3])

			info := registry[registryKey(bus, dev)]
			device := &Device{
				Bus:       bus,
				Num:       dev,
				VendorID:  info.VendorID,
				ProductID: info.ProductID,
				Name:      info.Name,
				Class:     m[4],
				Driver:    m[5],
				Speed:     m[6],
				Ports:     makePorts(portCount(m[5])),
			}

			topology.Buses = append(topology.Buses, Bus{Number: bus, Device: device})
			currentBus = bus
			parentStack = []*Device{device}
			seen = make(map[string]bool)
			continue
		}

		m := childRe.FindStringSubmatch(line)
		if m == nil || currentBus < 0 {
			continue
		}

		depth := len(m[1]) / 4
		port, _ := strconv.Atoi(m[2])
		dev, _ := strconv.Atoi(m[3])
		ifNum := m[4]
		class := m[5]
		driver := m[6]
		speed := m[7]

		// A device enumerated via several interfaces appears once per
		// interface with the same (bus, port, dev) triple; only the If-0
		// (or interface-less) line materializes a node.
		key := fmt.Sprintf("%d-%d-%d", currentBus, port, dev)
		if seen[key] {
			continue
		}
		if ifNum != "" && ifNum != "0" {
			continue
		}
		seen[key] = true

		info := registry[registryKey(currentBus, dev)]

		n := 0
		if strings.Contains(class, "Hub") || strings.Contains(driver, "hub") {
			n = portCount(driver)
		}

		device := &Device{
			Bus:       currentBus,
			Num:       dev,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Name:      info.Name,
			Class:     class,
			Driver:    driver,
			Speed:     speed,
			Ports:     makePorts(n),
		}

		parentDepth := depth - 1
		if parentDepth < 0 || parentDepth >= len(parentStack) {
			continue
		}
		parent := parentStack[parentDepth]
		for i := range parent.Ports {
			if parent.Ports[i].Number == port && parent.Ports[i].Device == nil {
				parent.Ports[i].Device = device
				break
			}
		}

		// A new hub becomes the open ancestor at its depth; deeper entries
		// left over from a previous sibling subtree are discarded.
		if n > 0 {
			if depth >= len(parentStack) {
				parentStack = append(parentStack, device)
			} else {
				parentStack[depth] = device
			}
			parentStack = parentStack[:depth+1]
		}
	}

	return topology
}

func registryKey(bus, dev int) string {
	return fmt.Sprintf("%03d-%03d", bus, dev)
}

func portCount(driver string) int {
	m := portCountRe.FindStringSubmatch(driver)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func makePorts(n int) []Port {
	if n == 0 {
		return nil
	}
	ports := make([]Port, n)
	for i := range ports {
		ports[i] = Port{Number: i + 1}
	}
	return ports
}
