package usb

import (
	"bufio"
	"regexp"
	"strings"
)

// deviceListRe matches one line of the flat device listing, e.g.
// Bus 001 Device 009: ID 1a40:0201 Terminus Technology Inc. FE 2.1 7-port Hub
var deviceListRe = regexp.MustCompile(`Bus (\d+) Device (\d+): ID ([0-9a-f]+):([0-9a-f]+) (.+)`)

// ParseDeviceList builds a lookup of descriptive device identity keyed by
// "<bus>-<device>", both zero-padded to three digits as printed by lsusb.
// Lines that do not match the pattern are skipped; if two lines describe the
// same key the later one wins.
func ParseDeviceList(text string) map[string]DeviceInfo {
	devices := make(map[string]DeviceInfo)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		m := deviceListRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		devices[m[1]+"-"+m[2]] = DeviceInfo{
			VendorID:  m[3],
			ProductID: m[4],
			Name:      strings.TrimSpace(m[5]),
		}
	}
	return devices
}
