package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	gormbulk "github.com/t-tiger/gorm-bulk-insert"
)

func NewORMDB(dialect, dbURI string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dbURI)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Archive{}, &Task{}, &ParsedTable{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnqueueArchive registers an uploaded archive and a pending task to parse it.
// Registering the same archive twice reuses the archive row.
func EnqueueArchive(db *gorm.DB, archive Archive) (*Task, error) {
	if archive.UploadedAt.IsZero() {
		archive.UploadedAt = time.Now()
	}
	if err := db.Where(Archive{ID: archive.ID}).Attrs(archive).FirstOrCreate(&archive).Error; err != nil {
		return nil, err
	}
	task := Task{
		ID:        uuid.New().String(),
		ArchiveID: archive.ID,
		Status:    TaskStatusPending,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	task.Archive = archive
	return &task, nil
}

// ClaimNextTask marks the oldest pending task as running and returns it.
// While any task is running no other task is claimed, so parses never
// overlap. It returns nil when there is nothing to claim.
// TODO: requeue running tasks whose worker died; needs a heartbeat column.
func ClaimNextTask(db *gorm.DB) (*Task, error) {
	var task Task

	dbTx := db.Begin()
	if err := dbTx.Error; err != nil {
		return nil, err
	}

	var running int
	if err := dbTx.Model(&Task{}).Where("status = ?", TaskStatusRunning).Count(&running).Error; err != nil {
		dbTx.Rollback()
		return nil, err
	}
	if running > 0 {
		dbTx.Rollback()
		return nil, nil
	}

	err := dbTx.
		Preload("Archive").
		Where("status = ?", TaskStatusPending).
		Order("created_at ASC").
		First(&task).Error
	if gorm.IsRecordNotFoundError(err) {
		dbTx.Rollback()
		return nil, nil
	}
	if err != nil {
		dbTx.Rollback()
		return nil, err
	}

	if err := dbTx.Model(&task).UpdateColumn("status", TaskStatusRunning).Error; err != nil {
		dbTx.Rollback()
		return nil, err
	}

	if err := dbTx.Commit().Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FailTask records why a task failed.
func FailTask(db *gorm.DB, task *Task, cause error) error {
	task.Status = TaskStatusFailed
	task.Error = cause.Error()
	return db.Model(task).UpdateColumns(map[string]interface{}{
		"status":     TaskStatusFailed,
		"error":      task.Error,
		"updated_at": time.Now(),
	}).Error
}

// FinishTask stores the published version and an index of its tables.
func FinishTask(db *gorm.DB, task *Task, version string, tables []*Table) error {
	now := time.Now()
	index := make([]interface{}, 0, len(tables))
	for _, t := range tables {
		index = append(index, ParsedTable{
			ID:          uuid.New().String(),
			TaskID:      task.ID,
			Version:     version,
			TableKey:    t.Key,
			ColumnCount: len(t.Columns),
			RowCount:    len(t.Rows),
			CreatedAt:   now,
		})
	}
	if err := gormbulk.BulkInsert(db, index, 1000); err != nil {
		return fmt.Errorf("unable to index tables of %s: %w", version, err)
	}

	task.Status = TaskStatusFinished
	task.TableVersion = version
	return db.Model(task).UpdateColumns(map[string]interface{}{
		"status":        TaskStatusFinished,
		"table_version": version,
		"updated_at":    now,
	}).Error
}

// PublishedVersions returns the table versions of finished tasks, newest first.
func PublishedVersions(db *gorm.DB) ([]string, error) {
	versions := make([]string, 0)
	err := db.Model(&Task{}).
		Where("status = ?", TaskStatusFinished).
		Order("updated_at DESC").
		Pluck("table_version", &versions).Error
	return versions, err
}
