package provider

import (
	"encoding/json"
	"fmt"

	"github.com/hamed0406/availwatch/internal/domain"
)

// OVH reads the dedicated/server/datacenter/availabilities listing, where
// each hardware variant is its own entry keyed by planCode.
type OVH struct{}

type ovhEntry struct {
	PlanCode    string `json:"planCode"`
	Server      string `json:"server"`
	Datacenters []struct {
		Datacenter   string `json:"datacenter"`
		Availability string `json:"availability"`
	} `json:"datacenters"`
}

func (OVH) Decode(body []byte) (Response, error) {
	var entries []ovhEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return Response{}, fmt.Errorf("decode ovh payload: %w", err)
	}

	resp := Response{Entities: make([]Entity, 0, len(entries))}
	for _, e := range entries {
		ref := e.PlanCode
		if ref == "" {
			ref = e.Server
		}
		ent := Entity{Reference: ref, Zones: make([]ZoneEntry, 0, len(e.Datacenters))}
		for _, dc := range e.Datacenters {
			ent.Zones = append(ent.Zones, ZoneEntry{Zone: dc.Datacenter, Availability: dc.Availability})
		}
		resp.Entities = append(resp.Entities, ent)
	}
	return resp, nil
}

func (OVH) Extract(resp Response, t Tracking) domain.ResultSet {
	return extract(resp, t)
}
