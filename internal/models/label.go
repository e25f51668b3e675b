package models

// Label is implemented by the user-owned name entities attached to recipes.
type Label interface {
	GetID() uint64
	GetName() string
	OwnerID() uint64
	SetOwner(userID uint64)
	SetName(name string)
}

// LabelPtr constrains generic code to pointers of label models.
type LabelPtr[T any] interface {
	*T
	Label
}

// Tag is a user-owned recipe label such as "Dinner".
type Tag struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_tags_user_name,priority:1" json:"-"`
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_user_name,priority:2" json:"name"`
}

func (t *Tag) GetID() uint64          { return t.ID }
func (t *Tag) GetName() string        { return t.Name }
func (t *Tag) OwnerID() uint64        { return t.UserID }
func (t *Tag) SetOwner(userID uint64) { t.UserID = userID }
func (t *Tag) SetName(name string)    { t.Name = name }

// Ingredient is a user-owned ingredient name such as "Salt".
type Ingredient struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_ingredients_user_name,priority:1" json:"-"`
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_ingredients_user_name,priority:2" json:"name"`
}

func (i *Ingredient) GetID() uint64          { return i.ID }
func (i *Ingredient) GetName() string        { return i.Name }
func (i *Ingredient) OwnerID() uint64        { return i.UserID }
func (i *Ingredient) SetOwner(userID uint64) { i.UserID = userID }
func (i *Ingredient) SetName(name string)    { i.Name = name }
