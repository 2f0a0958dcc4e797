// Package provider turns an inventory API into a domain.ResultSet: fetch the
// raw body, decode it with the provider's Extractor, then keep only the
// tracked servers and zones.
package provider

import (
	"fmt"
	"sort"

	"github.com/hamed0406/availwatch/internal/domain"
)

// Response is the normalised provider payload. Every extractor decodes its
// own wire format into this shape.
type Response struct {
	Entities []Entity
}

// Entity is one server reference and its per-zone availability.
type Entity struct {
	Reference string
	Zones     []ZoneEntry
}

type ZoneEntry struct {
	Zone         string
	Availability string
}

// Tracking is the resolved watch list for one provider.
type Tracking struct {
	Entities      []string          // server names, report order
	Locations     []string          // zone codes, report order
	EntityCodes   map[string]string // server name -> provider reference
	LocationNames map[string]string // zone code -> display name
}

// Extractor is the per-provider capability selected once at startup.
type Extractor interface {
	Decode(body []byte) (Response, error)
	Extract(resp Response, t Tracking) domain.ResultSet
}

var registry = map[string]Extractor{
	"kimsufi": Kimsufi{},
	"ovh":     OVH{},
}

// Lookup returns the extractor registered under name.
func Lookup(name string) (Extractor, error) {
	ex, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor %q (known: %v)", name, Names())
	}
	return ex, nil
}

// Names lists the registered extractor tags, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// extract is the filtering shared by every provider. Order follows the
// tracked names, then response order for duplicate references, then the
// tracked zones; the raw entity order does not matter otherwise.
func extract(resp Response, t Tracking) domain.ResultSet {
	out := domain.ResultSet{}
	seen := make(map[string]bool, len(t.Entities))

	for _, name := range t.Entities {
		if seen[name] {
			continue
		}
		seen[name] = true

		code, ok := t.EntityCodes[name]
		if !ok || code == "" {
			continue
		}
		for _, ent := range resp.Entities {
			if ent.Reference != code {
				continue
			}
			for _, loc := range t.Locations {
				z, found := firstZone(ent.Zones, loc)
				if !found || z.Availability == domain.StatusUnavailable {
					continue
				}
				out = append(out, domain.AvailabilityRecord{
					Server: domain.Server{Code: ent.Reference, Name: name},
					Zone:   domain.Zone{Code: loc, Location: t.LocationNames[loc]},
					Status: z.Availability,
				})
			}
		}
	}
	return out
}

func firstZone(zones []ZoneEntry, code string) (ZoneEntry, bool) {
	for _, z := range zones {
		if z.Zone == code {
			return z, true
		}
	}
	return ZoneEntry{}, false
}
