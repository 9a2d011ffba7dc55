package usb

import (
	"context"
	"fmt"
	"time"

	"hubpanel/backend/hubd/pkg/shell"
)

// Collect runs the two enumeration commands and assembles the raw topology.
// Each command is bounded by timeout; a failed or timed-out command aborts
// the whole scan with no partial result. Parse-level problems inside the
// command output never fail a scan, they just yield a smaller tree.
func Collect(ctx context.Context, timeout time.Duration) (*Topology, error) {
	tree, err := shell.Run(ctx, timeout, "lsusb", "-t")
	if err != nil {
		return nil, fmt.Errorf("enumerate tree: %w", err)
	}
	list, err := shell.Run(ctx, timeout, "lsusb")
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	registry := ParseDeviceList(string(list.Stdout))
	return ParseTree(string(tree.Stdout), registry), nil
}
