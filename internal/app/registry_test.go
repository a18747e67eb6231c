package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterIndexesBothWays(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	r.Register(1, 10, a)
	r.Register(1, 11, b)

	req.Len(r.SnapshotForChat(1), 2)
	req.Equal(1, r.UserConnCount(10))
	req.Equal(1, r.UserConnCount(11))
	req.Empty(r.SnapshotForChat(2))
}

func TestSnapshotIsACopy(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	a := &fakeConn{}
	r.Register(1, 10, a)

	snap := r.SnapshotForChat(1)
	snap[0] = nil

	req.NotNil(r.SnapshotForChat(1)[0])
}

func TestDeregisterIsIdempotentAndPrunesKeys(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	a := &fakeConn{}

	r.Register(1, 10, a)
	r.Deregister(1, 10, a)
	r.Deregister(1, 10, a) // second removal is a no-op

	req.Empty(r.SnapshotForChat(1))
	req.Zero(r.UserConnCount(10))

	// empty sets must not linger as dangling keys
	r.mu.RLock()
	defer r.mu.RUnlock()
	req.Empty(r.byChat)
	req.Empty(r.byUser)
	req.Empty(r.owners)
}

func TestUserInTwoChatsIsIndependent(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	first, second := &fakeConn{}, &fakeConn{}

	r.Register(1, 10, first)
	r.Register(2, 10, second)
	req.Equal(2, r.UserConnCount(10))

	r.Deregister(1, 10, first)

	req.Empty(r.SnapshotForChat(1))
	req.Len(r.SnapshotForChat(2), 1)
	req.Equal(1, r.UserConnCount(10))
}

func TestPruneByConnOnly(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	r.Register(7, 10, a)
	r.Register(7, 11, b)

	r.Prune(a)
	r.Prune(a) // unknown conn is a no-op

	req.Len(r.SnapshotForChat(7), 1)
	req.Zero(r.UserConnCount(10))
	req.Equal(1, r.UserConnCount(11))
}

func TestDeregisterOneOfSeveralSameUser(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	// same user, two tabs on the same chat
	r.Register(1, 10, a)
	r.Register(1, 10, b)
	r.Deregister(1, 10, a)

	req.Len(r.SnapshotForChat(1), 1)
	req.Equal(1, r.UserConnCount(10))

	req.Same(b, r.SnapshotForChat(1)[0].(*fakeConn))
}
