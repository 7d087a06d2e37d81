package seed

import (
	"testing"

	"stroy-backend/internal/models"
	"stroy-backend/internal/testutil"
)

func TestRun_TwiceLeavesFixedCounts(t *testing.T) {
	db := testutil.NewDB(t)

	for i := 0; i < 2; i++ {
		if err := Run(db); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	tests := []struct {
		model any
		want  int64
	}{
		{&models.ProductCategory{}, 4},
		{&models.ProductType{}, 6},
		{&models.Quarry{}, 3},
		{&models.QuarryProductPrice{}, 6},
		{&models.TruckType{}, 5},
		{&models.Customer{}, 2},
		{&models.Order{}, 2},
		{&models.OrderTruck{}, 4},
	}
	for _, tt := range tests {
		var n int64
		if err := db.Model(tt.model).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		if n != tt.want {
			t.Errorf("%T: %d rows, want %d", tt.model, n, tt.want)
		}
	}
}

func TestRun_OrderTotals(t *testing.T) {
	db := testutil.NewDB(t)
	if err := Run(db); err != nil {
		t.Fatal(err)
	}

	var orders []models.Order
	if err := db.Preload("Trucks.TruckType").Order("id").Find(&orders).Error; err != nil {
		t.Fatal(err)
	}

	for _, o := range orders {
		if !o.ItemTotal().Equal(o.TotalPrice) {
			t.Errorf("order %d: item total %s != total price %s", o.ID, o.ItemTotal(), o.TotalPrice)
		}
		if o.TrucksSummary() == models.NoTrucksAssigned {
			t.Errorf("order %d has no trucks", o.ID)
		}
	}

	var inactive int64
	db.Model(&models.Quarry{}).Where("is_active = ?", false).Count(&inactive)
	if inactive != 1 {
		t.Errorf("inactive quarries = %d, want 1", inactive)
	}
}
