package models

import (
	"encoding/json"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
)

// LegacyPackageNotes mirrors the JSON blob older order items stored in a
// free-form notes column before package details got first-class columns.
// Kept for reading rows written by previous versions.
type LegacyPackageNotes struct {
	PickupAddress   string         `json:"pickup_address"`
	PickupCoords    geo.Coordinate `json:"pickup_coords"`
	DropoffAddress  string         `json:"dropoff_address"`
	DropoffCoords   geo.Coordinate `json:"dropoff_coords"`
	ItemDescription string         `json:"item_description"`
}

// EncodeLegacyNotes serializes package details in the legacy notes format.
func EncodeLegacyNotes(n LegacyPackageNotes) string {
	data, err := json.Marshal(n)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeLegacyNotes parses a legacy notes blob. Malformed JSON degrades to
// the zero value rather than an error; every historical consumer treated
// unparseable notes as missing data.
func DecodeLegacyNotes(raw string) LegacyPackageNotes {
	var n LegacyPackageNotes
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return LegacyPackageNotes{}
	}
	return n
}

// PackageItemFromLegacyNotes builds a package order item from a legacy
// notes blob.
func PackageItemFromLegacyNotes(raw string, quantity int) OrderItem {
	n := DecodeLegacyNotes(raw)
	return OrderItem{
		Kind:            ItemKindPackage,
		Quantity:        quantity,
		PickupAddress:   n.PickupAddress,
		PickupLat:       n.PickupCoords.Lat,
		PickupLng:       n.PickupCoords.Lng,
		DropoffAddress:  n.DropoffAddress,
		DropoffLat:      n.DropoffCoords.Lat,
		DropoffLng:      n.DropoffCoords.Lng,
		ItemDescription: n.ItemDescription,
	}
}
