package model

// Tag groups products (fresh food, daily goods, seasonings, ...).
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

// TagCount is a tag with the number of products carrying it.
type TagCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
