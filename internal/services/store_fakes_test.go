package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/renalog/internal/db"
	"github.com/terraincognita07/renalog/internal/models"
	"gorm.io/gorm"
)

// fakeRecordStore mimics the repository contract in memory, including
// the recompute-from-source aggregation the real store performs on every
// child mutation.
type fakeRecordStore struct {
	cycles     map[string]*models.TestCycle
	records    map[string]*models.UrinationRecord
	cycleOrder []string
	sequence   int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		cycles:  make(map[string]*models.TestCycle),
		records: make(map[string]*models.UrinationRecord),
	}
}

func (store *fakeRecordStore) nextID(prefix string) string {
	store.sequence++
	return fmt.Sprintf("%s-%d", prefix, store.sequence)
}

func (store *fakeRecordStore) Create(cycle *models.TestCycle) error {
	if cycle.ID == "" {
		cycle.ID = store.nextID("cycle")
	}
	if cycle.CreatedAt.IsZero() {
		cycle.CreatedAt = time.Now()
	}
	stored := *cycle
	stored.UrinationRecords = nil
	store.cycles[cycle.ID] = &stored
	store.cycleOrder = append(store.cycleOrder, cycle.ID)
	return nil
}

func (store *fakeRecordStore) UpdateFields(cycleID string, updates map[string]any) error {
	cycle, ok := store.cycles[cycleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			cycle.Status = value.(string)
		case "end_time":
			endTime := value.(time.Time)
			cycle.EndTime = &endTime
		case "total_volume":
			cycle.TotalVolume = value.(float64)
		default:
			return fmt.Errorf("fake store: unsupported update field %q", key)
		}
	}
	cycle.UpdatedAt = time.Now()
	return nil
}

func (store *fakeRecordStore) SaveResult(cycleID string, result *models.TestResult) error {
	cycle, ok := store.cycles[cycleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if result == nil {
		cycle.TestResult = nil
	} else {
		stored := *result
		cycle.TestResult = &stored
	}
	cycle.UpdatedAt = time.Now()
	return nil
}

func (store *fakeRecordStore) FindByID(cycleID string) (models.TestCycle, error) {
	cycle, ok := store.cycles[cycleID]
	if !ok {
		return models.TestCycle{}, gorm.ErrRecordNotFound
	}
	return store.withRecords(*cycle), nil
}

func (store *fakeRecordStore) FindOngoing() (models.TestCycle, bool, error) {
	ongoing := make([]*models.TestCycle, 0, 1)
	for _, cycle := range store.cycles {
		if cycle.Status == models.CycleStatusOngoing {
			ongoing = append(ongoing, cycle)
		}
	}
	if len(ongoing) == 0 {
		return models.TestCycle{}, false, nil
	}
	if len(ongoing) > 1 {
		return models.TestCycle{}, false, db.ErrMultipleOngoingCycles
	}
	return store.withRecords(*ongoing[0]), true, nil
}

func (store *fakeRecordStore) ListAll() ([]models.TestCycle, error) {
	cycles := make([]models.TestCycle, 0, len(store.cycleOrder))
	for i := len(store.cycleOrder) - 1; i >= 0; i-- {
		cycle, ok := store.cycles[store.cycleOrder[i]]
		if !ok {
			continue
		}
		cycles = append(cycles, store.withRecords(*cycle))
	}
	return cycles, nil
}

func (store *fakeRecordStore) Delete(cycleID string) error {
	if _, ok := store.cycles[cycleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(store.cycles, cycleID)
	for recordID, record := range store.records {
		if record.CycleID == cycleID {
			delete(store.records, recordID)
		}
	}
	return nil
}

func (store *fakeRecordStore) DeleteAll() error {
	store.cycles = make(map[string]*models.TestCycle)
	store.records = make(map[string]*models.UrinationRecord)
	store.cycleOrder = nil
	return nil
}

func (store *fakeRecordStore) CreateRecord(record *models.UrinationRecord) error {
	if _, ok := store.cycles[record.CycleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if record.ID == "" {
		record.ID = store.nextID("record")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	stored := *record
	store.records[record.ID] = &stored
	return store.RecomputeTotalVolume(record.CycleID)
}

func (store *fakeRecordStore) FindRecordByID(recordID string) (models.UrinationRecord, error) {
	record, ok := store.records[recordID]
	if !ok {
		return models.UrinationRecord{}, gorm.ErrRecordNotFound
	}
	return *record, nil
}

func (store *fakeRecordStore) DeleteRecord(recordID string) error {
	record, ok := store.records[recordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(store.records, recordID)
	return store.RecomputeTotalVolume(record.CycleID)
}

func (store *fakeRecordStore) RecomputeTotalVolume(cycleID string) error {
	cycle, ok := store.cycles[cycleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	var total float64
	for _, record := range store.records {
		if record.CycleID == cycleID {
			total += record.Volume
		}
	}
	cycle.TotalVolume = total
	return nil
}

func (store *fakeRecordStore) withRecords(cycle models.TestCycle) models.TestCycle {
	records := make([]models.UrinationRecord, 0)
	for _, record := range store.records {
		if record.CycleID == cycle.ID {
			records = append(records, *record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Time.Equal(records[j].Time) {
			return records[i].ID < records[j].ID
		}
		return records[i].Time.Before(records[j].Time)
	})
	cycle.UrinationRecords = records
	return cycle
}

// fakeUrinationStore adapts fakeRecordStore to the UrinationRepository
// interface, whose method names collide with the cycle side.
type fakeUrinationStore struct {
	store *fakeRecordStore
}

func (adapter fakeUrinationStore) Create(record *models.UrinationRecord) error {
	return adapter.store.CreateRecord(record)
}

func (adapter fakeUrinationStore) FindByID(recordID string) (models.UrinationRecord, error) {
	return adapter.store.FindRecordByID(recordID)
}

func (adapter fakeUrinationStore) Delete(recordID string) error {
	return adapter.store.DeleteRecord(recordID)
}

func (adapter fakeUrinationStore) RecomputeTotalVolume(cycleID string) error {
	return adapter.store.RecomputeTotalVolume(cycleID)
}

type fakeConfigStore struct {
	config *models.UserConfig
}

func (store *fakeConfigStore) Load() (models.UserConfig, bool, error) {
	if store.config == nil {
		return models.UserConfig{}, false, nil
	}
	return *store.config, true, nil
}

func (store *fakeConfigStore) Save(config *models.UserConfig) error {
	stored := *config
	stored.ID = models.UserConfigKey
	store.config = &stored
	return nil
}

func (store *fakeConfigStore) Reset() error {
	defaults := models.DefaultUserConfig()
	return store.Save(&defaults)
}

func newFakeCycleService(allowCompletedEdits bool) (*CycleService, *fakeRecordStore) {
	store := newFakeRecordStore()
	service := NewCycleService(store, fakeUrinationStore{store: store}, allowCompletedEdits)
	return service, store
}
