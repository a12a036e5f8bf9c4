package users

import "time"

type User struct {
	ID        int64      `json:"userId"`
	Name      string     `json:"name"`
	Village   string     `json:"village"`
	Address   string     `json:"address"`
	Mobile    string     `json:"mobile"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type RegisterInput struct {
	Name    string `json:"name"`
	Village string `json:"village"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
}

type UpdateInput struct {
	Name    string `json:"name"`
	Village string `json:"village"`
	Address string `json:"address"`
}
