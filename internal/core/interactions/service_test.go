package interactions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ContentDiscovery/internal/core/snaps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSnapID = "3f2a1c0e-8b7d-4e6f-9a5b-1c2d3e4f5a6b"

// memoryRepository mirrors the store semantics: one row per (kind, user, snap)
// and a counter that only moves when a row changes
type memoryRepository struct {
	rows     map[string]bool
	counters map[Kind]int
	mu       sync.Mutex
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:     make(map[string]bool),
		counters: make(map[Kind]int),
	}
}

func (r *memoryRepository) Add(_ context.Context, kind Kind, userID, snapID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(kind) + "|" + userID + "|" + snapID
	if r.rows[key] {
		return false, nil
	}
	r.rows[key] = true
	r.counters[kind]++
	return true, nil
}

func (r *memoryRepository) Remove(_ context.Context, kind Kind, userID, snapID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(kind) + "|" + userID + "|" + snapID
	if !r.rows[key] {
		return false, nil
	}
	delete(r.rows, key)
	if r.counters[kind] > 0 {
		r.counters[kind]--
	}
	return true, nil
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Add(ctx context.Context, kind Kind, userID, snapID string) (bool, error) {
	args := m.Called(ctx, kind, userID, snapID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Remove(ctx context.Context, kind Kind, userID, snapID string) (bool, error) {
	args := m.Called(ctx, kind, userID, snapID)
	return args.Bool(0), args.Error(1)
}

type mockSnapReader struct {
	mock.Mock
}

func (m *mockSnapReader) GetByID(ctx context.Context, id string) (*snaps.Snap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snaps.Snap), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SnapLiked(ctx context.Context, likerID string, snap *snaps.Snap) error {
	args := m.Called(ctx, likerID, snap)
	return args.Error(0)
}

func TestInteractionService_DoubleLikeCountsOnce(t *testing.T) {
	repo := newMemoryRepository()
	service := NewInteractionService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, service.Like(ctx, "u1", testSnapID))
	require.NoError(t, service.Like(ctx, "u1", testSnapID))

	assert.Equal(t, 1, repo.counters[KindLike])
	assert.Len(t, repo.rows, 1)
}

func TestInteractionService_InterleavedCountersNeverNegative(t *testing.T) {
	repo := newMemoryRepository()
	service := NewInteractionService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, service.Unlike(ctx, "u1", testSnapID))
	require.NoError(t, service.Like(ctx, "u1", testSnapID))
	require.NoError(t, service.Like(ctx, "u2", testSnapID))
	require.NoError(t, service.Unlike(ctx, "u1", testSnapID))
	require.NoError(t, service.Unlike(ctx, "u1", testSnapID))
	require.NoError(t, service.Unlike(ctx, "u2", testSnapID))
	require.NoError(t, service.Unlike(ctx, "u2", testSnapID))

	assert.Equal(t, 0, repo.counters[KindLike])

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = service.Share(ctx, "u1", testSnapID)
			} else {
				_ = service.Unshare(ctx, "u1", testSnapID)
			}
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, repo.counters[KindShare], 0)
	assert.LessOrEqual(t, repo.counters[KindShare], 1)
}

func TestInteractionService_KindsAreIndependent(t *testing.T) {
	repo := newMemoryRepository()
	service := NewInteractionService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, service.Like(ctx, "u1", testSnapID))
	require.NoError(t, service.Share(ctx, "u1", testSnapID))
	require.NoError(t, service.Fav(ctx, "u1", testSnapID))
	require.NoError(t, service.Unfav(ctx, "u1", testSnapID))

	assert.Equal(t, 1, repo.counters[KindLike])
	assert.Equal(t, 1, repo.counters[KindShare])
	assert.Equal(t, 0, repo.counters[KindFav])
}

func TestInteractionService_LikeNotifiesAuthor(t *testing.T) {
	repo := new(mockRepository)
	reader := new(mockSnapReader)
	notifier := new(mockNotifier)
	service := NewInteractionService(repo, reader, notifier)
	ctx := context.Background()

	snap := &snaps.Snap{ID: testSnapID, AuthorID: "author"}
	repo.On("Add", ctx, KindLike, "fan", testSnapID).Return(true, nil)
	reader.On("GetByID", ctx, testSnapID).Return(snap, nil)
	notifier.On("SnapLiked", ctx, "fan", snap).Return(nil)

	require.NoError(t, service.Like(ctx, "fan", testSnapID))
	notifier.AssertExpectations(t)
}

func TestInteractionService_RepeatedLikeDoesNotNotify(t *testing.T) {
	repo := new(mockRepository)
	reader := new(mockSnapReader)
	notifier := new(mockNotifier)
	service := NewInteractionService(repo, reader, notifier)
	ctx := context.Background()

	repo.On("Add", ctx, KindLike, "fan", testSnapID).Return(false, nil)

	require.NoError(t, service.Like(ctx, "fan", testSnapID))
	reader.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SnapLiked", mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionService_SelfLikeDoesNotNotify(t *testing.T) {
	repo := new(mockRepository)
	reader := new(mockSnapReader)
	notifier := new(mockNotifier)
	service := NewInteractionService(repo, reader, notifier)
	ctx := context.Background()

	repo.On("Add", ctx, KindLike, "author", testSnapID).Return(true, nil)
	reader.On("GetByID", ctx, testSnapID).Return(&snaps.Snap{ID: testSnapID, AuthorID: "author"}, nil)

	require.NoError(t, service.Like(ctx, "author", testSnapID))
	notifier.AssertNotCalled(t, "SnapLiked", mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionService_NotifierFailureIsSwallowed(t *testing.T) {
	repo := new(mockRepository)
	reader := new(mockSnapReader)
	notifier := new(mockNotifier)
	service := NewInteractionService(repo, reader, notifier)
	ctx := context.Background()

	snap := &snaps.Snap{ID: testSnapID, AuthorID: "author"}
	repo.On("Add", ctx, KindLike, "fan", testSnapID).Return(true, nil)
	reader.On("GetByID", ctx, testSnapID).Return(snap, nil)
	notifier.On("SnapLiked", ctx, "fan", snap).Return(errors.New("gateway down"))

	assert.NoError(t, service.Like(ctx, "fan", testSnapID))
}

func TestInteractionService_MissingSnap(t *testing.T) {
	repo := new(mockRepository)
	service := NewInteractionService(repo, nil, nil)
	ctx := context.Background()

	repo.On("Add", ctx, KindFav, "u1", testSnapID).Return(false, snaps.ErrSnapNotFound)

	err := service.Fav(ctx, "u1", testSnapID)
	assert.ErrorIs(t, err, snaps.ErrSnapNotFound)
}

func TestInteractionService_Validation(t *testing.T) {
	repo := new(mockRepository)
	service := NewInteractionService(repo, nil, nil)
	ctx := context.Background()

	err := service.Like(ctx, "", testSnapID)
	assert.True(t, snaps.IsValidationError(err))

	err = service.Share(ctx, "u1", "not-a-uuid")
	assert.ErrorIs(t, err, snaps.ErrSnapNotFound)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("share")
	require.NoError(t, err)
	assert.Equal(t, KindShare, k)

	_, err = ParseKind("retweet")
	assert.Error(t, err)
}
