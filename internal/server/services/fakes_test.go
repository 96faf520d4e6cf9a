package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/dbx"
	"github.com/kooo/evcam-companion/internal/logging"
	"github.com/kooo/evcam-companion/internal/server/models"
	"github.com/kooo/evcam-companion/internal/server/repositories/bindhistory"
	"github.com/kooo/evcam-companion/internal/server/repositories/commands"
	"github.com/kooo/evcam-companion/internal/server/repositories/devices"
	"github.com/kooo/evcam-companion/internal/server/repositories/files"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testDB returns an in-memory handle used only as a transaction carrier for
// dbx.WithTx; the fake repositories ignore it.
func testDB() (*sql.DB, error) {
	return sql.Open("sqlite", ":memory:")
}

type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]*models.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[string]*models.Device)}
}

func (r *fakeDeviceRepo) Create(_ context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[device.ID]; ok {
		return common.ErrorConflict
	}
	cp := *device
	cp.CreatedAt = time.Now()
	r.devices[device.ID] = &cp
	return nil
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, id string) (*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeviceRepo) Touch(_ context.Context, id string, at time.Time, upd devices.HeartbeatUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.LastHeartbeat = &at
	if upd.StatusInfo != nil {
		d.StatusInfo = *upd.StatusInfo
	}
	if upd.Recording != nil {
		d.Recording = *upd.Recording
	}
	return nil
}

func (r *fakeDeviceRepo) RefreshRegistration(_ context.Context, id, name, model, appVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	if name != "" {
		d.Name = name
	}
	if model != "" {
		d.Model = model
	}
	if appVersion != "" {
		d.AppVersion = appVersion
	}
	d.LastRegisterAt = time.Now()
	return nil
}

func (r *fakeDeviceRepo) Bind(_ context.Context, id, userID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	now := time.Now()
	d.BoundUserID = userID
	d.BoundAt = &now
	if name != "" {
		d.Name = name
	}
	return nil
}

func (r *fakeDeviceRepo) Unbind(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.BoundUserID = ""
	d.BoundAt = nil
	return nil
}

func (r *fakeDeviceRepo) ListByOwner(_ context.Context, userID string, limit, offset int) ([]*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Device
	for _, d := range r.devices {
		if d.BoundUserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeDeviceRepo) CountByOwner(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.devices {
		if d.BoundUserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDeviceRepo) SetPreviewFrame(_ context.Context, id, storageKey string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.PreviewKey = storageKey
	d.PreviewAt = &at
	return nil
}

type fakeCommandRepo struct {
	mu       sync.Mutex
	commands map[string]*models.Command
	seq      int
}

func newFakeCommandRepo() *fakeCommandRepo {
	return &fakeCommandRepo{commands: make(map[string]*models.Command)}
}

func (r *fakeCommandRepo) Create(_ context.Context, cmd *models.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cmd
	// monotonic creation times so FIFO order is deterministic in tests
	r.seq++
	cp.CreatedAt = time.Unix(0, int64(r.seq))
	r.commands[cmd.ID] = &cp
	return nil
}

func (r *fakeCommandRepo) GetByID(_ context.Context, id string) (*models.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commands[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommandRepo) ClaimPending(_ context.Context, deviceID string, limit int) ([]*models.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*models.Command
	for _, c := range r.commands {
		if c.DeviceID == deviceID && c.Status == common.StatusPending {
			pending = append(pending, c)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	if limit < len(pending) {
		pending = pending[:limit]
	}
	out := make([]*models.Command, 0, len(pending))
	for _, c := range pending {
		c.Status = common.StatusExecuting
		c.UpdatedAt = time.Now()
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCommandRepo) SetResult(_ context.Context, deviceID, commandID, status string, result []byte, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commands[commandID]
	if !ok || c.DeviceID != deviceID {
		return common.ErrorNotFound
	}
	now := time.Now()
	c.Status = status
	c.Result = result
	c.ErrorMessage = errorMessage
	c.UpdatedAt = now
	c.CompletedAt = &now
	return nil
}

func (r *fakeCommandRepo) AttachResult(_ context.Context, commandID string, result []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commands[commandID]
	if !ok {
		return common.ErrorNotFound
	}
	c.Result = result
	return nil
}

func (r *fakeCommandRepo) CountPending(_ context.Context, deviceID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.commands {
		if c.DeviceID == deviceID && c.Status == common.StatusPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommandRepo) FailStalled(_ context.Context, maxAge time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	var n int64
	for _, c := range r.commands {
		if c.Status == common.StatusExecuting && c.UpdatedAt.Before(cutoff) {
			c.Status = common.StatusFailed
			c.ErrorMessage = "execution timed out"
			n++
		}
	}
	return n, nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[string]*models.FileRecord
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.FileRecord)}
}

func (r *fakeFileRepo) Create(_ context.Context, file *models.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *file
	cp.CreatedAt = time.Now()
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) ListByDevice(_ context.Context, deviceID, fileType string, limit, offset int) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FileRecord
	for _, f := range r.files {
		if f.DeviceID == deviceID && (fileType == "" || f.FileType == fileType) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeFileRepo) CountByDevice(_ context.Context, deviceID, fileType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, f := range r.files {
		if f.DeviceID == deviceID && (fileType == "" || f.FileType == fileType) {
			n++
		}
	}
	return n, nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.files, id)
	return nil
}

type historyEntry struct {
	DeviceID string
	UserID   string
	Action   string
}

type fakeBindHistoryRepo struct {
	mu      sync.Mutex
	entries []historyEntry
}

func (r *fakeBindHistoryRepo) Append(_ context.Context, deviceID, userID, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, historyEntry{DeviceID: deviceID, UserID: userID, Action: action})
	return nil
}

type fakeRepoManager struct {
	devs *fakeDeviceRepo
	cmds *fakeCommandRepo
	fls  *fakeFileRepo
	hist *fakeBindHistoryRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		devs: newFakeDeviceRepo(),
		cmds: newFakeCommandRepo(),
		fls:  newFakeFileRepo(),
		hist: &fakeBindHistoryRepo{},
	}
}

func (m *fakeRepoManager) Devices(dbx.DBTX) devices.Repository         { return m.devs }
func (m *fakeRepoManager) Commands(dbx.DBTX) commands.Repository       { return m.cmds }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return m.fls }
func (m *fakeRepoManager) BindHistory(dbx.DBTX) bindhistory.Repository { return m.hist }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
