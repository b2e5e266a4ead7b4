package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one recorded grouped coverage report
type Run struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	// Where the report came from
	Branch    string `gorm:"type:varchar(255);index"`
	CommitSHA string `gorm:"type:varchar(64)"`
	Label     string `gorm:"type:varchar(255)"`

	// Run-wide totals from the coverage input
	Lines      float64
	Statements float64
	Functions  float64
	Branches   float64

	Groups []GroupResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// GroupResult is one group's aggregate inside a run
type GroupResult struct {
	ID       uint   `gorm:"primaryKey"`
	RunID    uint   `gorm:"not null;index"`
	Name     string `gorm:"type:varchar(255);not null;index"`
	Position int    `gorm:"not null"` // order the group was reported in

	Lines      float64
	Statements float64
	Functions  float64
	Branches   float64

	FileCount int
	Files     datatypes.JSON // map of display path to percentages
}

func (Run) TableName() string         { return "runs" }
func (GroupResult) TableName() string { return "group_results" }
