package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

type memUsers struct {
	byID map[int64]*user.User
	set  map[int64]*int64
}

func (m *memUsers) Create(ctx context.Context, u *user.User) error { return nil }
func (m *memUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return u, nil
}
func (m *memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, pg.ErrNotFound
}
func (m *memUsers) SetLineManager(ctx context.Context, id int64, managerID *int64) error {
	if m.set == nil {
		m.set = map[int64]*int64{}
	}
	m.set[id] = managerID
	return nil
}
func (m *memUsers) SetEmailOptOut(ctx context.Context, id int64, optOut bool) error { return nil }

func ptr(v int64) *int64 { return &v }

func TestSetLineManager(t *testing.T) {
	m := &memUsers{byID: map[int64]*user.User{
		1: {ID: 1},
		2: {ID: 2},
	}}
	uc := NewUsecase(m)

	require.NoError(t, uc.SetLineManager(context.Background(), 1, ptr(2)))
	require.Contains(t, m.set, int64(1))
	assert.Equal(t, int64(2), *m.set[1])
}

func TestSetLineManagerClears(t *testing.T) {
	m := &memUsers{byID: map[int64]*user.User{1: {ID: 1, LineManagerID: ptr(2)}}}
	uc := NewUsecase(m)

	require.NoError(t, uc.SetLineManager(context.Background(), 1, nil))
	require.Contains(t, m.set, int64(1))
	assert.Nil(t, m.set[1])
}

func TestSetLineManagerSelf(t *testing.T) {
	uc := NewUsecase(&memUsers{byID: map[int64]*user.User{1: {ID: 1}}})

	assert.ErrorIs(t, uc.SetLineManager(context.Background(), 1, ptr(1)), ErrSelfManager)
}

func TestSetLineManagerUnknown(t *testing.T) {
	uc := NewUsecase(&memUsers{byID: map[int64]*user.User{1: {ID: 1}}})

	assert.ErrorIs(t, uc.SetLineManager(context.Background(), 1, ptr(99)), ErrNoSuchManager)
}

func TestSetLineManagerRejectsCycle(t *testing.T) {
	// 3 reports to 2, 2 reports to 1; making 1 report to 3 would loop
	m := &memUsers{byID: map[int64]*user.User{
		1: {ID: 1},
		2: {ID: 2, LineManagerID: ptr(1)},
		3: {ID: 3, LineManagerID: ptr(2)},
	}}
	uc := NewUsecase(m)

	assert.ErrorIs(t, uc.SetLineManager(context.Background(), 1, ptr(3)), ErrManagerCycle)
}

func TestSetLineManagerDeepChainOK(t *testing.T) {
	m := &memUsers{byID: map[int64]*user.User{
		1: {ID: 1},
		2: {ID: 2, LineManagerID: ptr(1)},
		3: {ID: 3, LineManagerID: ptr(2)},
		4: {ID: 4},
	}}
	uc := NewUsecase(m)

	require.NoError(t, uc.SetLineManager(context.Background(), 4, ptr(3)))
}
