package dashboard

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service that serves snapshots.
const ServiceName = "riskboard.v1.DashboardService"

// GetMainDashboardMethod is the full method name of the snapshot RPC.
const GetMainDashboardMethod = "/" + ServiceName + "/GetMainDashboard"

// ToStruct converts a snapshot through its JSON form, so the Struct keys
// match the HTTP body exactly.
func ToStruct(snap *Snapshot) (*structpb.Struct, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return out, nil
}

// FromStruct is the inverse of ToStruct.
func FromStruct(st *structpb.Struct) (*Snapshot, error) {
	data, err := st.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
