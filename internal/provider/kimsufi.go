package provider

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hamed0406/availwatch/internal/domain"
)

// Kimsufi reads the legacy getAvailability2 dispatcher payload:
//
//	{"answer":{"availability":[{"reference":"160sk1","zones":[{"zone":"gra","availability":"1H-low"}]}]}}
type Kimsufi struct{}

type kimsufiPayload struct {
	Answer *struct {
		Availability []struct {
			Reference string `json:"reference"`
			Zones     []struct {
				Zone         string `json:"zone"`
				Availability string `json:"availability"`
			} `json:"zones"`
		} `json:"availability"`
	} `json:"answer"`
}

func (Kimsufi) Decode(body []byte) (Response, error) {
	var p kimsufiPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Response{}, fmt.Errorf("decode kimsufi payload: %w", err)
	}
	if p.Answer == nil {
		return Response{}, errors.New("decode kimsufi payload: missing answer")
	}

	resp := Response{Entities: make([]Entity, 0, len(p.Answer.Availability))}
	for _, item := range p.Answer.Availability {
		ent := Entity{Reference: item.Reference, Zones: make([]ZoneEntry, 0, len(item.Zones))}
		for _, z := range item.Zones {
			ent.Zones = append(ent.Zones, ZoneEntry{Zone: z.Zone, Availability: z.Availability})
		}
		resp.Entities = append(resp.Entities, ent)
	}
	return resp, nil
}

func (Kimsufi) Extract(resp Response, t Tracking) domain.ResultSet {
	return extract(resp, t)
}
