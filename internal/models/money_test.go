package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"19.999"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString.String() != "20.00" {
		t.Fatalf("unexpected rounded amount: %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`12.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.String() != "12.50" {
		t.Fatalf("unexpected amount: %s", fromNumber.String())
	}
}

func TestMoneyMulKeepsTwoDecimals(t *testing.T) {
	got := MustMoney("49.99").Mul(3)
	if got.String() != "149.97" {
		t.Fatalf("unexpected product: %s", got.String())
	}
	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `"149.97"` {
		t.Fatalf("unexpected json: %s", raw)
	}
}

func TestProductSnapshotFallsBackToFirstImage(t *testing.T) {
	p := Product{Name: "Linen Shirt", Slug: "linen-shirt", Images: StringArray{"a.jpg", "b.jpg"}}
	snap := p.Snapshot()
	if snap.ImageURL != "a.jpg" || snap.Name != "Linen Shirt" || snap.Slug != "linen-shirt" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestShippingAddressScanFromString(t *testing.T) {
	var addr ShippingAddress
	if err := addr.Scan(`{"full_name":"Ana","city":"Lisbon"}`); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if addr.FullName != "Ana" || addr.City != "Lisbon" {
		t.Fatalf("unexpected address: %+v", addr)
	}
}

func TestMoneySubFloorNeverNegative(t *testing.T) {
	total := MustMoney("30.00").Add(MustMoney("19.90"))
	if total.String() != "49.90" {
		t.Fatalf("unexpected sum: %s", total)
	}
	if got := total.SubFloor(MustMoney("9.90").Decimal); got.String() != "40.00" {
		t.Fatalf("unexpected difference: %s", got)
	}
	if got := total.SubFloor(MustMoney("80.00").Decimal); got.String() != "0.00" {
		t.Fatalf("difference should floor at zero, got %s", got)
	}
}

func TestMoneyUnmarshalRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric money")
	}
}
