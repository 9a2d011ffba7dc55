package usb

import "testing"

func TestParseDeviceList(t *testing.T) {
	text := `Bus 001 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub
Bus 001 Device 009: ID 1a40:0201 Terminus Technology Inc. FE 2.1 7-port Hub
some unrelated noise line
Bus 002 Device 003: ID 046d:c52b Logitech, Inc. Unifying Receiver
`
	devices := ParseDeviceList(text)
	if len(devices) != 3 {
		t.Fatalf("expected 3 devices, got %d", len(devices))
	}
	d, ok := devices["001-009"]
	if !ok {
		t.Fatalf("missing key 001-009: %v", devices)
	}
	if d.VendorID != "1a40" || d.ProductID != "0201" {
		t.Fatalf("unexpected ids: %+v", d)
	}
	if d.Name != "Terminus Technology Inc. FE 2.1 7-port Hub" {
		t.Fatalf("unexpected name: %q", d.Name)
	}
}

func TestParseDeviceListSkipsNonMatching(t *testing.T) {
	devices := ParseDeviceList("garbage\n\nBus without the rest\n")
	if len(devices) != 0 {
		t.Fatalf("expected empty map, got %v", devices)
	}
}

func TestParseDeviceListLaterLineWins(t *testing.T) {
	text := `Bus 001 Device 002: ID aaaa:bbbb First Name
Bus 001 Device 002: ID cccc:dddd Second Name
`
	devices := ParseDeviceList(text)
	d := devices["001-002"]
	if d.VendorID != "cccc" || d.Name != "Second Name" {
		t.Fatalf("expected later line to win, got %+v", d)
	}
}
