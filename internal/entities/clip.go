package entities

import (
	"time"

	"github.com/mrlokans/clipcatalog/internal/store"
)

var clipColumns = []string{"name", "description", "start_time", "stop_time"}

// Clip is a named segment of footage with optional start and stop times.
type Clip struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;size:32;not null" json:"name" validate:"required,max=32,xmltext"`
	Description string     `gorm:"size:256" json:"description" validate:"max=256,xmltext"`
	StartTime   *time.Time `json:"start_time"`
	StopTime    *time.Time `json:"stop_time"`
}

func (Clip) TableName() string {
	return store.TableClip
}

func (c *Clip) Identifier() uint      { return c.ID }
func (c *Clip) SetIdentifier(id uint) { c.ID = id }
func (c *Clip) LookupName() string    { return c.Name }
func (c *Clip) Columns() []string     { return clipColumns }

// Duration is StopTime - StartTime, or zero when either bound is missing.
// A stop before the start gives a negative duration.
func (c *Clip) Duration() time.Duration {
	if c.StartTime == nil || c.StopTime == nil {
		return 0
	}
	return c.StopTime.Sub(*c.StartTime)
}

func (c *Clip) ToMap() store.Record {
	return store.Record{
		"name":        c.Name,
		"description": c.Description,
		"start_time":  timeValue(c.StartTime),
		"stop_time":   timeValue(c.StopTime),
	}
}

func (c *Clip) FromMap(rec store.Record) error {
	if err := setString(rec, "name", &c.Name); err != nil {
		return err
	}
	if err := setString(rec, "description", &c.Description); err != nil {
		return err
	}
	if err := setTime(rec, "start_time", &c.StartTime); err != nil {
		return err
	}
	return setTime(rec, "stop_time", &c.StopTime)
}

func (c *Clip) String() string {
	return describe("Clip", c.ID, clipColumns, c.ToMap())
}
