package storage

import (
	"time"
)

type Archive struct {
	ID         string `gorm:"primary_key"`
	Bucket     string
	Key        string
	FileName   string
	FileSize   int
	UploadedAt time.Time
}

func (Archive) TableName() string {
	return "archives_archive"
}

type TaskStatusType int

const (
	TaskStatusPending  TaskStatusType = 1
	TaskStatusRunning  TaskStatusType = 10
	TaskStatusFailed   TaskStatusType = 99
	TaskStatusFinished TaskStatusType = 100
)

type Task struct {
	ID           string `gorm:"primary_key"`
	ArchiveID    string
	Archive      Archive `gorm:"foreignkey:ArchiveID;association_foreignkey:ID"`
	Status       TaskStatusType
	TableVersion string
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Task) TableName() string {
	return "tasks_task"
}

// ParsedTable indexes one table written by a finished task.
type ParsedTable struct {
	ID          string `gorm:"primary_key"`
	TaskID      string
	Version     string
	TableKey    string
	ColumnCount int
	RowCount    int
	CreatedAt   time.Time
}

func (ParsedTable) TableName() string {
	return "tasks_parsed_table"
}
