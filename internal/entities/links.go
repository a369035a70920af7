package entities

import (
	"github.com/mrlokans/clipcatalog/internal/store"
)

var (
	producerShowColumns = []string{"producer_id", "show_id"}
	selectedClipColumns = []string{"clip_id", "ps_id"}
)

// ProducerShow links a producer to a show. Rows may reference ids that no
// longer exist; nothing cascades.
type ProducerShow struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProducerID uint `gorm:"index" json:"producer_id" validate:"required"`
	ShowID     uint `gorm:"index" json:"show_id" validate:"required"`
}

func (ProducerShow) TableName() string {
	return store.TableProducerShow
}

func (l *ProducerShow) Identifier() uint      { return l.ID }
func (l *ProducerShow) SetIdentifier(id uint) { l.ID = id }
func (l *ProducerShow) LookupName() string    { return "" }
func (l *ProducerShow) Columns() []string     { return producerShowColumns }

func (l *ProducerShow) ToMap() store.Record {
	return store.Record{
		"producer_id": l.ProducerID,
		"show_id":     l.ShowID,
	}
}

func (l *ProducerShow) FromMap(rec store.Record) error {
	if err := setID(rec, "producer_id", &l.ProducerID); err != nil {
		return err
	}
	return setID(rec, "show_id", &l.ShowID)
}

func (l *ProducerShow) String() string {
	return describe("ProducerShow", l.ID, producerShowColumns, l.ToMap())
}

// SelectedClip attaches a clip to one producer/show pairing.
type SelectedClip struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ClipID         uint `gorm:"index" json:"clip_id" validate:"required"`
	ProducerShowID uint `gorm:"column:ps_id;index" json:"ps_id" validate:"required"`
}

func (SelectedClip) TableName() string {
	return store.TableSelectedClip
}

func (l *SelectedClip) Identifier() uint      { return l.ID }
func (l *SelectedClip) SetIdentifier(id uint) { l.ID = id }
func (l *SelectedClip) LookupName() string    { return "" }
func (l *SelectedClip) Columns() []string     { return selectedClipColumns }

func (l *SelectedClip) ToMap() store.Record {
	return store.Record{
		"clip_id": l.ClipID,
		"ps_id":   l.ProducerShowID,
	}
}

func (l *SelectedClip) FromMap(rec store.Record) error {
	if err := setID(rec, "clip_id", &l.ClipID); err != nil {
		return err
	}
	return setID(rec, "ps_id", &l.ProducerShowID)
}

func (l *SelectedClip) String() string {
	return describe("SelectedClip", l.ID, selectedClipColumns, l.ToMap())
}

// Models lists every catalog model for schema migration.
func Models() []any {
	return []any{
		&Clip{},
		&Show{},
		&Producer{},
		&ProducerShow{},
		&SelectedClip{},
	}
}
