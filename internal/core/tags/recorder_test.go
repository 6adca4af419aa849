package tags

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/trending"
	"ContentDiscovery/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) AddHashtags(ctx context.Context, snapID string, names []string, createdAt time.Time) error {
	args := m.Called(ctx, snapID, names, createdAt)
	return args.Error(0)
}

func (m *mockRepository) AddMentions(ctx context.Context, snapID string, mentions []Mention, createdAt time.Time) error {
	args := m.Called(ctx, snapID, mentions, createdAt)
	return args.Error(0)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type resolverFunc func(ctx context.Context, username string) (*identity.User, error)

func (f resolverFunc) ResolveUsername(ctx context.Context, username string) (*identity.User, error) {
	return f(ctx, username)
}

type mockTopics struct {
	mock.Mock
}

func (m *mockTopics) ListTopics(ctx context.Context) ([]*trending.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trending.Topic), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SnapMentioned(ctx context.Context, fromID, toID string, snap *snaps.Snap) error {
	args := m.Called(ctx, fromID, toID, snap)
	return args.Error(0)
}

func (m *mockNotifier) TrendingSnap(ctx context.Context, topic *trending.Topic, snap *snaps.Snap) error {
	args := m.Called(ctx, topic, snap)
	return args.Error(0)
}

func testSnap(content string) *snaps.Snap {
	return &snaps.Snap{
		ID:         "0b8f4a52-5b7c-4c1e-a3f2-6d9e8c7b1a00",
		AuthorID:   "author",
		Content:    content,
		Visibility: snaps.VisibilityPublic,
		Privacy:    snaps.PrivacyPublic,
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecorder_ResolvedMention(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockResolver)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, users, nil, notifier)
	ctx := context.Background()
	snap := testSnap("hello #world @alice")

	repo.On("AddHashtags", ctx, snap.ID, []string{"#world"}, snap.CreatedAt).Return(nil)
	users.On("ResolveUsername", mock.Anything, "alice").Return(&identity.User{ID: "id-alice", Username: "alice"}, nil)
	repo.On("AddMentions", ctx, snap.ID, []Mention{{MentionedID: "id-alice", Username: "alice"}}, snap.CreatedAt).Return(nil)
	notifier.On("SnapMentioned", ctx, "author", "id-alice", snap).Return(nil)

	require.NoError(t, recorder.Record(ctx, snap))

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRecorder_UnresolvedMentionUsesSentinel(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockResolver)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, users, nil, notifier)
	ctx := context.Background()
	snap := testSnap("hello #world @alice")

	repo.On("AddHashtags", ctx, snap.ID, []string{"#world"}, snap.CreatedAt).Return(nil)
	users.On("ResolveUsername", mock.Anything, "alice").Return(nil, identity.ErrUpstream)
	repo.On("AddMentions", ctx, snap.ID, []Mention{{MentionedID: UnknownMentionID, Username: "alice"}}, snap.CreatedAt).Return(nil)

	require.NoError(t, recorder.Record(ctx, snap))

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "SnapMentioned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecorder_SelfMentionIsStoredButNotNotified(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockResolver)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, users, nil, notifier)
	ctx := context.Background()
	snap := testSnap("note to @me")

	users.On("ResolveUsername", mock.Anything, "me").Return(&identity.User{ID: "author"}, nil)
	repo.On("AddMentions", ctx, snap.ID, []Mention{{MentionedID: "author", Username: "me"}}, snap.CreatedAt).Return(nil)

	require.NoError(t, recorder.Record(ctx, snap))
	notifier.AssertNotCalled(t, "SnapMentioned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecorder_StorageErrorsAreReturned(t *testing.T) {
	repo := new(mockRepository)
	recorder := NewRecorder(repo, nil, nil, nil)
	ctx := context.Background()
	snap := testSnap("#a @b")

	repo.On("AddHashtags", ctx, snap.ID, mock.Anything, mock.Anything).Return(errors.New("hashtags failed"))
	repo.On("AddMentions", ctx, snap.ID, mock.Anything, mock.Anything).Return(errors.New("mentions failed"))

	err := recorder.Record(ctx, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hashtags failed")
	assert.Contains(t, err.Error(), "mentions failed")
}

func TestRecorder_NoTokensTouchesNothing(t *testing.T) {
	repo := new(mockRepository)
	recorder := NewRecorder(repo, nil, nil, nil)

	require.NoError(t, recorder.Record(context.Background(), testSnap("just words")))
	repo.AssertNotCalled(t, "AddHashtags", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "AddMentions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecorder_TrendingSnapNotification(t *testing.T) {
	repo := new(mockRepository)
	topics := new(mockTopics)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, nil, topics, notifier)
	ctx := context.Background()
	snap := testSnap("#calm then #hot and #hotter")

	hot := &trending.Topic{ID: "t1", Name: "#hot"}
	hotter := &trending.Topic{ID: "t2", Name: "#hotter"}
	repo.On("AddHashtags", ctx, snap.ID, mock.Anything, mock.Anything).Return(nil)
	topics.On("ListTopics", ctx).Return([]*trending.Topic{hotter, hot}, nil)
	notifier.On("TrendingSnap", ctx, hot, snap).Return(nil).Once()

	require.NoError(t, recorder.Record(ctx, snap))
	notifier.AssertNumberOfCalls(t, "TrendingSnap", 1)
}

func TestRecorder_PrivateSnapIsNotAnnouncedAsTrending(t *testing.T) {
	repo := new(mockRepository)
	topics := new(mockTopics)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, nil, topics, notifier)
	ctx := context.Background()
	snap := testSnap("#hot")
	snap.Visibility = snaps.VisibilityPrivate

	repo.On("AddHashtags", ctx, snap.ID, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, recorder.Record(ctx, snap))
	topics.AssertNotCalled(t, "ListTopics", mock.Anything)
}

func TestRecorder_TrendingLookupFailureIsSwallowed(t *testing.T) {
	repo := new(mockRepository)
	topics := new(mockTopics)
	notifier := new(mockNotifier)
	recorder := NewRecorder(repo, nil, topics, notifier)
	ctx := context.Background()
	snap := testSnap("#hot")

	repo.On("AddHashtags", ctx, snap.ID, mock.Anything, mock.Anything).Return(nil)
	topics.On("ListTopics", ctx).Return(nil, errors.New("db down"))

	assert.NoError(t, recorder.Record(ctx, snap))
}

func TestRecorder_MentionsResolveConcurrently(t *testing.T) {
	repo := new(mockRepository)
	snap := testSnap("@ana @bea @cai")

	var inFlight sync.WaitGroup
	inFlight.Add(3)
	all := make(chan struct{})
	go func() {
		inFlight.Wait()
		close(all)
	}()

	users := resolverFunc(func(ctx context.Context, username string) (*identity.User, error) {
		inFlight.Done()
		select {
		case <-all:
			return &identity.User{ID: "id-" + username}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	recorder := NewRecorder(repo, users, nil, nil)

	repo.On("AddMentions", mock.Anything, snap.ID, []Mention{
		{MentionedID: "id-ana", Username: "ana"},
		{MentionedID: "id-bea", Username: "bea"},
		{MentionedID: "id-cai", Username: "cai"},
	}, snap.CreatedAt).Return(nil)

	require.NoError(t, recorder.Record(context.Background(), snap))
	repo.AssertExpectations(t)
}

func TestRecorder_SlowLookupsFallBackAtDeadline(t *testing.T) {
	repo := new(mockRepository)
	snap := testSnap("@slow @fast @slow")

	var calls atomic.Int32
	users := resolverFunc(func(ctx context.Context, username string) (*identity.User, error) {
		calls.Add(1)
		if username == "fast" {
			return &identity.User{ID: "id-fast"}, nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	})
	recorder := NewRecorder(repo, users, nil, nil)
	recorder.resolveTimeout = 50 * time.Millisecond

	repo.On("AddMentions", mock.Anything, snap.ID, []Mention{
		{MentionedID: UnknownMentionID, Username: "slow"},
		{MentionedID: "id-fast", Username: "fast"},
		{MentionedID: UnknownMentionID, Username: "slow"},
	}, snap.CreatedAt).Return(nil)

	start := time.Now()
	require.NoError(t, recorder.Record(context.Background(), snap))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(2), calls.Load(), "repeated usernames are looked up once")
	repo.AssertExpectations(t)
}
