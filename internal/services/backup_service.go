package services

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/renalog/internal/models"
	"golang.org/x/crypto/blake2b"
)

// BackupVersion tags every exported document; import accepts any document
// that carries a version at all, so older files keep restoring.
const BackupVersion = "1.0.0"

var (
	ErrBackupInvalidFormat    = errors.New("backup document missing required fields")
	ErrBackupChecksumMismatch = errors.New("backup document checksum mismatch")
)

// BackupDocument is a versioned, self-contained snapshot of everything
// the app stores. It is produced and consumed atomically, never live.
type BackupDocument struct {
	Version    string             `json:"version"`
	ExportTime time.Time          `json:"exportTime"`
	Checksum   string             `json:"checksum,omitempty"`
	TestCycles []models.TestCycle `json:"testCycles"`
	UserConfig *models.UserConfig `json:"userConfig"`
}

type BackupCycleStore interface {
	ListAll() ([]models.TestCycle, error)
	Create(cycle *models.TestCycle) error
	DeleteAll() error
}

type BackupRecordStore interface {
	Create(record *models.UrinationRecord) error
	RecomputeTotalVolume(cycleID string) error
}

type BackupConfigStore interface {
	Load() (models.UserConfig, bool, error)
	Save(config *models.UserConfig) error
}

// BackupService operates directly against the record store: restore is a
// trusted bulk load that bypasses the lifecycle state checks.
type BackupService struct {
	cycles  BackupCycleStore
	records BackupRecordStore
	config  BackupConfigStore
}

func NewBackupService(cycles BackupCycleStore, records BackupRecordStore, config BackupConfigStore) *BackupService {
	return &BackupService{cycles: cycles, records: records, config: config}
}

func (service *BackupService) Export(now time.Time) (BackupDocument, error) {
	cycles, err := service.cycles.ListAll()
	if err != nil {
		return BackupDocument{}, fmt.Errorf("list cycles for backup: %w", err)
	}

	config, exists, err := service.config.Load()
	if err != nil {
		return BackupDocument{}, fmt.Errorf("load config for backup: %w", err)
	}
	if !exists {
		config = models.DefaultUserConfig()
	}

	document := BackupDocument{
		Version:    BackupVersion,
		ExportTime: now,
		TestCycles: cycles,
		UserConfig: &config,
	}
	checksum, err := backupChecksum(document.TestCycles, document.UserConfig)
	if err != nil {
		return BackupDocument{}, err
	}
	document.Checksum = checksum
	return document, nil
}

// Import clears all existing data, then restores cycles, their records
// and the user config from the document. Ids, timestamps and parent/child
// linkage are preserved; every record-backed cycle's total volume is
// recomputed from its restored records instead of trusting the embedded
// aggregate. A failure partway through is surfaced as an error, not
// hidden as success.
func (service *BackupService) Import(document BackupDocument) error {
	if document.Version == "" || document.TestCycles == nil || document.UserConfig == nil {
		return ErrBackupInvalidFormat
	}

	if document.Checksum != "" {
		checksum, err := backupChecksum(document.TestCycles, document.UserConfig)
		if err != nil {
			return err
		}
		if checksum != document.Checksum {
			return ErrBackupChecksumMismatch
		}
	}

	if err := service.cycles.DeleteAll(); err != nil {
		return fmt.Errorf("clear data before restore: %w", err)
	}

	for _, cycle := range document.TestCycles {
		records := cycle.UrinationRecords
		cycle.UrinationRecords = nil

		if err := service.cycles.Create(&cycle); err != nil {
			return fmt.Errorf("restore cycle %s: %w", cycle.ID, err)
		}

		for _, record := range records {
			record.CycleID = cycle.ID
			if err := service.records.Create(&record); err != nil {
				return fmt.Errorf("restore record %s of cycle %s: %w", record.ID, cycle.ID, err)
			}
		}

		// Manual cycles carry their total directly and have no child
		// records to derive it from.
		if cycle.Status != models.CycleStatusManual {
			if err := service.records.RecomputeTotalVolume(cycle.ID); err != nil {
				return fmt.Errorf("recompute total volume of cycle %s: %w", cycle.ID, err)
			}
		}
	}

	if err := service.config.Save(document.UserConfig); err != nil {
		return fmt.Errorf("restore user config: %w", err)
	}
	return nil
}

// BuildBackupFilename embeds the export timestamp so consecutive backups
// never overwrite each other.
func BuildBackupFilename(now time.Time) string {
	return fmt.Sprintf("renalog-backup-%s.json", now.Format("2006-01-02_15-04-05"))
}

func backupChecksum(cycles []models.TestCycle, config *models.UserConfig) (string, error) {
	payload := struct {
		TestCycles []models.TestCycle `json:"testCycles"`
		UserConfig *models.UserConfig `json:"userConfig"`
	}{TestCycles: cycles, UserConfig: config}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode backup payload: %w", err)
	}
	digest := blake2b.Sum256(encoded)
	return hex.EncodeToString(digest[:]), nil
}
