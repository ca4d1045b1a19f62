package domain

import "time"

// Product is a catalog item managed by admins.
type Product struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	Price       float64    `gorm:"not null" json:"price"` // price in main currency units
	Stock       int        `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // null until the first update
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ProductRef is the {id, name} pair reported back for deleted products.
type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
