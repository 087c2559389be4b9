package models

// EntityKind names a referencable model for polymorphic links
// (order item, chat topic, action target).
type EntityKind string

const (
	EntityKindService EntityKind = "service"
	EntityKindProject EntityKind = "project"
	EntityKindOrder   EntityKind = "order"
)

// EntityRef is a tagged reference to a row of one of the models above.
// It is stored as a (kind, id) column pair on the owning row.
type EntityRef struct {
	Kind EntityKind `gorm:"column:kind;size:20" json:"kind"`
	ID   string     `gorm:"column:id;size:36" json:"id"`
}

func (r EntityRef) IsZero() bool {
	return r.Kind == "" || r.ID == ""
}
