package usb

// DeviceInfo holds the identity fields recovered from the flat device listing.
type DeviceInfo struct {
	VendorID  string
	ProductID string
	Name      string
}

// Device is one node of the topology tree. A device with a non-empty Ports
// slice is a hub; one with none is a leaf endpoint. The aggregated-view
// fields are populated only by Aggregate and stay zero on raw trees.
type Device struct {
	Bus       int    `json:"bus"`
	Num       int    `json:"device"`
	VendorID  string `json:"vendorId"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Driver    string `json:"driver"`
	Speed     string `json:"speed"`
	Ports     []Port `json:"ports,omitempty"`

	Aggregated  bool    `json:"aggregated,omitempty"`
	TotalPorts  int     `json:"totalPorts,omitempty"`
	SubHubCount int     `json:"subHubCount,omitempty"`
	FlatPorts   []Port  `json:"physicalPorts,omitempty"`
	GridLayout  [][]int `json:"gridLayout,omitempty"`
}

// Port is a numbered socket on a hub. The aggregation fields record which
// physical hub the socket really lives on once flattened into a virtual hub.
type Port struct {
	Number int     `json:"port"`
	Device *Device `json:"device,omitempty"`

	HubDevice  int    `json:"hubDevice,omitempty"`
	HubPort    int    `json:"hubPort,omitempty"`
	Location   string `json:"location,omitempty"`
	MappedSlot int    `json:"mappedPort,omitempty"`
	Key        string `json:"portKey,omitempty"`
}

// Bus pairs a bus number with its root hub (depth 0).
type Bus struct {
	Number int     `json:"bus"`
	Device *Device `json:"device"`
}

// Topology is a point-in-time snapshot of all buses.
type Topology struct {
	Buses      []Bus `json:"buses"`
	Aggregated bool  `json:"aggregated"`
}

// clone copies the descriptive fields only; ports and aggregation results are
// the caller's to fill.
func (d *Device) clone() *Device {
	return &Device{
		Bus:       d.Bus,
		Num:       d.Num,
		VendorID:  d.VendorID,
		ProductID: d.ProductID,
		Name:      d.Name,
		Class:     d.Class,
		Driver:    d.Driver,
		Speed:     d.Speed,
	}
}
