package dto

// CapabilityStatus reports one capability kind's availability state.
type CapabilityStatus struct {
	Kind         string `json:"kind"`
	Availability string `json:"availability"`
	Usable       bool   `json:"usable"`
}

type CapabilityStatusResponse struct {
	Capabilities []CapabilityStatus `json:"capabilities"`
}
