package entities

import (
	"github.com/mrlokans/clipcatalog/internal/store"
)

var producerColumns = []string{"name", "phone", "email"}

// Producer is a person with optional phone and email contacts.
type Producer struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:32;not null" json:"name" validate:"required,max=32,xmltext"`
	Phone string `gorm:"size:32" json:"phone" validate:"max=32,xmltext"`
	Email string `gorm:"size:32" json:"email" validate:"max=32,xmltext"`
}

func (Producer) TableName() string {
	return store.TableProducer
}

func (p *Producer) Identifier() uint      { return p.ID }
func (p *Producer) SetIdentifier(id uint) { p.ID = id }
func (p *Producer) LookupName() string    { return p.Name }
func (p *Producer) Columns() []string     { return producerColumns }

func (p *Producer) ToMap() store.Record {
	return store.Record{
		"name":  p.Name,
		"phone": p.Phone,
		"email": p.Email,
	}
}

func (p *Producer) FromMap(rec store.Record) error {
	if err := setString(rec, "name", &p.Name); err != nil {
		return err
	}
	if err := setString(rec, "phone", &p.Phone); err != nil {
		return err
	}
	return setString(rec, "email", &p.Email)
}

func (p *Producer) String() string {
	return describe("Producer", p.ID, producerColumns, p.ToMap())
}
