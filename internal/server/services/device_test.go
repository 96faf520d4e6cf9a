package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/server/repositories/bindhistory"
)

func newDeviceService(t *testing.T) (*DeviceService, *fakeRepoManager) {
	t.Helper()
	db, err := testDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repos := newFakeRepoManager()
	return NewDeviceService(db, repos, testLogger()), repos
}

func TestDeviceService_Register(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "dev-1", "Front cam", "EV-X1", "1.2.0")
	require.NoError(t, err)
	assert.True(t, first.IsNew)
	assert.Len(t, first.Secret, secretLength)

	again, err := svc.Register(ctx, "dev-1", "", "EV-X1", "1.3.0")
	require.NoError(t, err)
	assert.False(t, again.IsNew)
	assert.Equal(t, first.Secret, again.Secret)

	_, err = svc.Register(ctx, "", "x", "y", "z")
	assert.ErrorIs(t, err, common.ErrorInvalidCommand)
}

func TestDeviceService_Authenticate(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "dev-1", "", "", "")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "dev-1", res.Secret)
	assert.NoError(t, err)

	// empty presented secret skips the check
	_, err = svc.Authenticate(ctx, "dev-1", "")
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, "dev-1", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = svc.Authenticate(ctx, "nope", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeviceService_Heartbeat(t *testing.T) {
	svc, repos := newDeviceService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "dev-1", "", "", "")
	require.NoError(t, err)

	info := "charging"
	rec := true
	hb, err := svc.Heartbeat(ctx, "dev-1", res.Secret, &info, &rec)
	require.NoError(t, err)
	assert.False(t, hb.HasPendingCommands)

	device, err := repos.devs.GetByID(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, device.LastHeartbeat)
	assert.Equal(t, "charging", device.StatusInfo)
	assert.True(t, device.Recording)

	// a waiting command flips the fast-poll hint
	_, err = svc.Bind(ctx, "user-1", "dev-1", "")
	require.NoError(t, err)
	cmdSvc := NewCommandService(svc.db, repos, testLogger())
	_, err = cmdSvc.Enqueue(ctx, "user-1", "dev-1", common.KindStatus, nil)
	require.NoError(t, err)

	hb, err = svc.Heartbeat(ctx, "dev-1", res.Secret, nil, nil)
	require.NoError(t, err)
	assert.True(t, hb.HasPendingCommands)
}

func TestDeviceService_BindExclusive(t *testing.T) {
	svc, repos := newDeviceService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dev-1", "", "", "")
	require.NoError(t, err)

	device, err := svc.Bind(ctx, "user-a", "dev-1", "My car")
	require.NoError(t, err)
	assert.Equal(t, "user-a", device.BoundUserID)
	assert.Equal(t, "My car", device.Name)

	// rebinding by the same owner is fine and refreshes the name
	device, err = svc.Bind(ctx, "user-a", "dev-1", "Road trip")
	require.NoError(t, err)
	assert.Equal(t, "Road trip", device.Name)

	// a second owner is refused while the first still holds the device
	_, err = svc.Bind(ctx, "user-b", "dev-1", "")
	assert.ErrorIs(t, err, common.ErrorConflict)

	// after unbind the second owner can take it
	require.NoError(t, svc.Unbind(ctx, "user-a", "dev-1"))
	device, err = svc.Bind(ctx, "user-b", "dev-1", "")
	require.NoError(t, err)
	assert.Equal(t, "user-b", device.BoundUserID)

	actions := make([]string, 0, len(repos.hist.entries))
	for _, e := range repos.hist.entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		bindhistory.ActionBind,
		bindhistory.ActionBind,
		bindhistory.ActionUnbind,
		bindhistory.ActionBind,
	}, actions)
}

func TestDeviceService_BindAutoRegisters(t *testing.T) {
	svc, repos := newDeviceService(t)
	ctx := context.Background()

	device, err := svc.Bind(ctx, "user-a", "dev-new", "")
	require.NoError(t, err)
	assert.Equal(t, "user-a", device.BoundUserID)
	assert.NotEmpty(t, device.Secret)

	require.Len(t, repos.hist.entries, 1)
	assert.Equal(t, bindhistory.ActionRegisterAndBind, repos.hist.entries[0].Action)
}

func TestDeviceService_UnbindWrongOwner(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	_, err := svc.Bind(ctx, "user-a", "dev-1", "")
	require.NoError(t, err)

	err = svc.Unbind(ctx, "user-b", "dev-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeviceService_GetStatus(t *testing.T) {
	svc, repos := newDeviceService(t)
	ctx := context.Background()

	_, err := svc.Bind(ctx, "user-a", "dev-1", "")
	require.NoError(t, err)

	// never heartbeated: offline, -1 seconds
	st, err := svc.GetStatus(ctx, "user-a", "dev-1")
	require.NoError(t, err)
	assert.False(t, st.Online)
	assert.EqualValues(t, -1, st.SecondsSinceHeartbeat)

	// fresh heartbeat: online
	now := time.Now()
	repos.devs.devices["dev-1"].LastHeartbeat = &now
	st, err = svc.GetStatus(ctx, "user-a", "dev-1")
	require.NoError(t, err)
	assert.True(t, st.Online)

	// stale heartbeat past the UI timeout: offline but age still reported
	stale := time.Now().Add(-StatusTimeout - time.Second)
	repos.devs.devices["dev-1"].LastHeartbeat = &stale
	st, err = svc.GetStatus(ctx, "user-a", "dev-1")
	require.NoError(t, err)
	assert.False(t, st.Online)
	assert.GreaterOrEqual(t, st.SecondsSinceHeartbeat, int64(StatusTimeout/time.Second))

	// a non-owner cannot observe the device at all
	_, err = svc.GetStatus(ctx, "user-b", "dev-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeviceService_List(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	for _, id := range []string{"dev-1", "dev-2", "dev-3"} {
		_, err := svc.Bind(ctx, "user-a", id, "")
		require.NoError(t, err)
	}
	_, err := svc.Bind(ctx, "user-b", "dev-other", "")
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-a", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	assert.Len(t, list.Devices, 2)

	list, err = svc.List(ctx, "user-a", 2, 2)
	require.NoError(t, err)
	assert.Len(t, list.Devices, 1)

	// out-of-range paging parameters fall back to defaults
	list, err = svc.List(ctx, "user-a", -5, 1000)
	require.NoError(t, err)
	assert.Len(t, list.Devices, 3)
}
