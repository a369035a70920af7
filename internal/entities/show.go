package entities

import (
	"github.com/mrlokans/clipcatalog/internal/store"
)

var showColumns = []string{"name"}

// Show is a named show that producers are linked to.
type Show struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:32;not null" json:"name" validate:"required,max=32,xmltext"`
}

func (Show) TableName() string {
	return store.TableShow
}

func (s *Show) Identifier() uint      { return s.ID }
func (s *Show) SetIdentifier(id uint) { s.ID = id }
func (s *Show) LookupName() string    { return s.Name }
func (s *Show) Columns() []string     { return showColumns }

func (s *Show) ToMap() store.Record {
	return store.Record{"name": s.Name}
}

func (s *Show) FromMap(rec store.Record) error {
	return setString(rec, "name", &s.Name)
}

func (s *Show) String() string {
	return describe("Show", s.ID, showColumns, s.ToMap())
}
