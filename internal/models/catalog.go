package models

// Ingredient is shared reference data; recipes point at it with an amount.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
}

// Tag labels recipes, e.g. breakfast or dinner.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"type:varchar(200);uniqueIndex;not null"`
	Slug  string `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Color string `json:"color" gorm:"type:varchar(7);uniqueIndex;not null"`
}
