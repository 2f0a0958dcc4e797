package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/availwatch/internal/domain"
)

func tracking() Tracking {
	return Tracking{
		Entities:      []string{"serverA", "serverB"},
		Locations:     []string{"gra", "rbx"},
		EntityCodes:   map[string]string{"serverA": "160sk1", "serverB": "160sk2"},
		LocationNames: map[string]string{"gra": "Gravelines", "rbx": "Roubaix"},
	}
}

const kimsufiBody = `{"answer":{"availability":[
  {"reference":"160sk2","zones":[{"zone":"rbx","availability":"1H-high"},{"zone":"gra","availability":"unavailable"}]},
  {"reference":"999zz","zones":[{"zone":"gra","availability":"available"}]},
  {"reference":"160sk1","zones":[{"zone":"rbx","availability":"unavailable"},{"zone":"gra","availability":"available"}]}
]}}`

func TestKimsufi_ScenarioSingleAvailableZone(t *testing.T) {
	resp := Response{Entities: []Entity{{
		Reference: "160sk1",
		Zones: []ZoneEntry{
			{Zone: "gra", Availability: "available"},
			{Zone: "rbx", Availability: "unavailable"},
		},
	}}}
	tr := Tracking{
		Entities:      []string{"serverA"},
		Locations:     []string{"gra", "rbx"},
		EntityCodes:   map[string]string{"serverA": "160sk1"},
		LocationNames: map[string]string{"gra": "Gravelines"},
	}

	got := Kimsufi{}.Extract(resp, tr)

	require.Len(t, got, 1)
	assert.Equal(t, domain.AvailabilityRecord{
		Server: domain.Server{Code: "160sk1", Name: "serverA"},
		Zone:   domain.Zone{Code: "gra", Location: "Gravelines"},
		Status: "available",
	}, got[0])
}

func TestKimsufi_DecodeAndExtractOrder(t *testing.T) {
	resp, err := Kimsufi{}.Decode([]byte(kimsufiBody))
	require.NoError(t, err)
	require.Len(t, resp.Entities, 3)

	got := Kimsufi{}.Extract(resp, tracking())

	// tracked order (serverA, serverB) wins over response order
	require.Len(t, got, 2)
	assert.Equal(t, "serverA", got[0].Server.Name)
	assert.Equal(t, "gra", got[0].Zone.Code)
	assert.Equal(t, "serverB", got[1].Server.Name)
	assert.Equal(t, "rbx", got[1].Zone.Code)
	assert.Equal(t, "1H-high", got[1].Status, "status passes through verbatim")
}

func TestExtract_OrderIndependentOfResponseOrder(t *testing.T) {
	a := Entity{Reference: "160sk1", Zones: []ZoneEntry{{"rbx", "1H-low"}, {"gra", "1H-high"}}}
	b := Entity{Reference: "160sk2", Zones: []ZoneEntry{{"gra", "available"}, {"rbx", "available"}}}

	x := extract(Response{Entities: []Entity{a, b}}, tracking())
	y := extract(Response{Entities: []Entity{b, a}}, tracking())

	assert.True(t, x.Equal(y), "x=%v y=%v", x, y)
	require.Len(t, x, 4)
	assert.Equal(t, []string{"gra", "rbx", "gra", "rbx"},
		[]string{x[0].Zone.Code, x[1].Zone.Code, x[2].Zone.Code, x[3].Zone.Code})
}

func TestExtract_NeverEmitsUnavailable(t *testing.T) {
	resp := Response{Entities: []Entity{
		{Reference: "160sk1", Zones: []ZoneEntry{{"gra", "unavailable"}, {"rbx", "unavailable"}}},
		{Reference: "160sk2", Zones: []ZoneEntry{{"gra", "unavailable"}, {"rbx", "2H"}}},
	}}
	for _, r := range extract(resp, tracking()) {
		assert.NotEqual(t, domain.StatusUnavailable, r.Status)
	}
}

func TestExtract_UnknownNamesAndMissingZones(t *testing.T) {
	tr := tracking()
	tr.Entities = []string{"ghost", "serverA", "serverA"}
	tr.Locations = []string{"bhs", "gra"}

	resp := Response{Entities: []Entity{
		{Reference: "160sk1", Zones: []ZoneEntry{{"gra", "available"}, {"gra", "unavailable"}}},
	}}
	got := extract(resp, tr)

	require.Len(t, got, 1, "ghost has no code, bhs is absent, duplicate names ignored")
	assert.Equal(t, "available", got[0].Status, "first zone match wins")
}

func TestExtract_EmptyIsNonNil(t *testing.T) {
	got := extract(Response{}, tracking())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestKimsufi_DecodeErrors(t *testing.T) {
	_, err := Kimsufi{}.Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Kimsufi{}.Decode([]byte(`{"error":"maintenance"}`))
	assert.Error(t, err)
}

func TestOVH_Decode(t *testing.T) {
	body := `[
  {"fqn":"24ska01.ram-64g","planCode":"24ska01","server":"24ska01","datacenters":[
    {"datacenter":"gra","availability":"unavailable"},
    {"datacenter":"rbx","availability":"72H"}]}
]`
	resp, err := OVH{}.Decode([]byte(body))
	require.NoError(t, err)

	tr := Tracking{
		Entities:      []string{"KS-A"},
		Locations:     []string{"gra", "rbx"},
		EntityCodes:   map[string]string{"KS-A": "24ska01"},
		LocationNames: map[string]string{"rbx": "Roubaix"},
	}
	got := OVH{}.Extract(resp, tr)
	require.Len(t, got, 1)
	assert.Equal(t, "72H", got[0].Status)
	assert.Equal(t, "Roubaix", got[0].Zone.Location)
}

func TestLookup(t *testing.T) {
	ex, err := Lookup("kimsufi")
	require.NoError(t, err)
	assert.IsType(t, Kimsufi{}, ex)

	_, err = Lookup("hetzner")
	assert.Error(t, err)
	assert.Equal(t, []string{"kimsufi", "ovh"}, Names())
}
