package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrder_ItemTotal(t *testing.T) {
	tests := []struct {
		qty   float64
		price string
		want  string
	}{
		{100, "1500", "150000.00"},
		{12.5, "800.40", "10005.00"},
		{0, "700", "0.00"},
		{-2, "10", "-20.00"}, // отрицательные значения хранилище не запрещает
	}
	for _, tt := range tests {
		o := Order{Quantity: tt.qty, PricePerUnit: decimal.RequireFromString(tt.price)}
		if got := o.ItemTotal().StringFixed(2); got != tt.want {
			t.Errorf("ItemTotal(%v × %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
		}
	}

	for _, qty := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		o := Order{Quantity: qty, PricePerUnit: decimal.NewFromInt(10)}
		if got := o.ItemTotal(); !got.IsZero() {
			t.Errorf("ItemTotal(%v) = %s, want 0", qty, got)
		}
	}
}

func TestOrder_TrucksSummary(t *testing.T) {
	var empty Order
	if got := empty.TrucksSummary(); got != NoTrucksAssigned {
		t.Fatalf("empty summary = %q", got)
	}

	o := Order{Trucks: []OrderTruck{
		{Count: 2, TruckType: &TruckType{Name: "Самосвал 30м³"}},
		{Count: 1, TruckType: &TruckType{Name: "Самосвал 20м³"}},
	}}
	want := "Самосвал 30м³ × 2, Самосвал 20м³ × 1"
	if got := o.TrucksSummary(); got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestOrderTruck_Totals(t *testing.T) {
	truck := OrderTruck{Count: 3, TruckType: &TruckType{Volume: 20, LoadCapacity: 25.5}}
	if got := truck.TotalVolume(); got != 60 {
		t.Errorf("TotalVolume = %v", got)
	}
	if got := truck.TotalCapacity(); got != 76.5 {
		t.Errorf("TotalCapacity = %v", got)
	}

	var unloaded OrderTruck
	if unloaded.TotalVolume() != 0 || unloaded.TotalCapacity() != 0 {
		t.Error("totals without truck type must be zero")
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ProductType{Name: "Песок речной", BaseUnit: "м³"}.String(), "Песок речной (м³)"},
		{Customer{FullName: "Иванов Иван", Phone: "+79001234567"}.String(), "Иванов Иван (+79001234567)"},
		{TruckType{Name: "Самосвал", Volume: 12.5}.String(), "Самосвал (12.5 м³)"},
		{QuarryProductPrice{
			Quarry:  &Quarry{Name: "Карьер"},
			Product: &ProductType{Name: "Щебень"},
			Price:   decimal.NewFromInt(1500),
		}.String(), "Карьер - Щебень: 1500.00"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
