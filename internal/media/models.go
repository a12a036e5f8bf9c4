package media

import "time"

type Video struct {
	ID           int64      `json:"videoId"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	VideoURL     string     `json:"videoUrl"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	Category     string     `json:"category"`
	Duration     int        `json:"duration"` // seconds
	IsActive     bool       `json:"isActive"`
	DisplayOrder int        `json:"displayOrder"`
	CreatedBy    *int64     `json:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type VideoInput struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Category     string  `json:"category"`
	Duration     int     `json:"duration"`
	IsActive     bool    `json:"isActive"`
	DisplayOrder int     `json:"displayOrder"`
}
