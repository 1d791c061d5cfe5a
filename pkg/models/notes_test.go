package models

import (
	"testing"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
)

func TestLegacyNotes_RoundTrip(t *testing.T) {
	in := LegacyPackageNotes{
		PickupAddress:   "12 Ekenwan Road, Benin City",
		PickupCoords:    geo.Coordinate{Lat: 6.74, Lng: 6.13},
		DropoffAddress:  "3 Airport Road, Benin City",
		DropoffCoords:   geo.Coordinate{Lat: 6.75, Lng: 6.14},
		ItemDescription: "sealed envelope",
	}

	out := DecodeLegacyNotes(EncodeLegacyNotes(in))
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestDecodeLegacyNotes_MalformedFallsBack(t *testing.T) {
	for _, raw := range []string{"", "{not json", `["array"]`, "null}"} {
		if got := DecodeLegacyNotes(raw); got != (LegacyPackageNotes{}) {
			t.Fatalf("malformed notes %q should decode to zero value, got %+v", raw, got)
		}
	}
}

func TestPackageItemFromLegacyNotes(t *testing.T) {
	raw := EncodeLegacyNotes(LegacyPackageNotes{
		PickupAddress:  "pickup",
		PickupCoords:   geo.Coordinate{Lat: 1, Lng: 2},
		DropoffAddress: "dropoff",
		DropoffCoords:  geo.Coordinate{Lat: 3, Lng: 4},
	})

	item := PackageItemFromLegacyNotes(raw, 2)
	if item.Kind != ItemKindPackage {
		t.Fatalf("kind = %s, want package", item.Kind)
	}
	if item.Quantity != 2 || item.PickupLat != 1 || item.DropoffLng != 4 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.PickupCoords() != (geo.Coordinate{Lat: 1, Lng: 2}) {
		t.Fatalf("pickup coords = %+v", item.PickupCoords())
	}
}
