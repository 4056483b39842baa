package domain

import "time"

type Category struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	OrderHint string    `json:"orderHint,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	SyncedAt  time.Time `json:"-"`
}
