package models

type Quarry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null;unique" json:"name"`
	Location string `gorm:"size:255" json:"location"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (q Quarry) String() string {
	return q.Name
}
