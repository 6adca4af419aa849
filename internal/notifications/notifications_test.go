package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ContentDiscovery/internal/core/feed"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/trending"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	body  any
	event Event
}

// recordingSender captures delivered notifications
type recordingSender struct {
	err   error
	block chan struct{}
	sent  []sent
	mu    sync.Mutex
}

func (r *recordingSender) Send(_ context.Context, event Event, body any) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{event: event, body: body})
	return r.err
}

func (r *recordingSender) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

type stubViewer struct {
	err error
}

func (v stubViewer) View(_ context.Context, viewerID string, snap *snaps.Snap) (*feed.SnapView, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &feed.SnapView{
		ID:              snap.ID,
		Username:        viewerID + "_name",
		FullName:        "Full Name",
		ProfilePhotoURL: "photo",
		NumReplies:      4,
	}, nil
}

func testSnap() *snaps.Snap {
	return &snaps.Snap{
		ID:         "5d0b6f7e-9c1a-4b2d-8e3f-7a6b5c4d3e2f",
		AuthorID:   "author",
		Content:    "hi @fan",
		Likes:      2,
		Visibility: snaps.VisibilityPublic,
		Privacy:    snaps.PrivacyPublic,
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestClient_Send(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	err := client.Send(context.Background(), EventLike, InteractionBody{FromID: "a", ToID: "b"})
	require.NoError(t, err)

	assert.Equal(t, "/api/notification/new_like", gotPath)
	assert.Equal(t, "a", gotBody["from_id"])
	assert.Equal(t, "b", gotBody["to_id"])
	assert.Contains(t, gotBody, "snap")
}

func TestClient_SendNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Send(context.Background(), EventTrending, TrendingBody{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_SendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	err := NewClient(server.URL, 50*time.Millisecond).Send(context.Background(), EventReply, InteractionBody{})
	assert.Error(t, err)
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 2, 16, time.Second)

	for i := 0; i < 10; i++ {
		require.NoError(t, d.Enqueue(EventTrending, func(context.Context) (any, error) { return "body", nil }))
	}

	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sender.all(), 10)

	assert.ErrorIs(t, d.Enqueue(EventTrending, nil), ErrClosed)
	assert.NoError(t, d.Close(context.Background()), "close is idempotent")
}

func TestDispatcher_QueueFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1, time.Second)
	build := func(context.Context) (any, error) { return nil, nil }

	// first job occupies the worker, second fills the queue
	require.NoError(t, d.Enqueue(EventLike, build))
	assert.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, d.Enqueue(EventLike, build))

	assert.ErrorIs(t, d.Enqueue(EventLike, build), ErrQueueFull)

	close(sender.block)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sender.all(), 2)
}

func TestDispatcher_FailuresAreContained(t *testing.T) {
	sender := &recordingSender{err: errors.New("gateway down")}
	d := NewDispatcher(sender, 1, 4, time.Second)

	require.NoError(t, d.Enqueue(EventLike, func(context.Context) (any, error) { return nil, errors.New("build failed") }))
	require.NoError(t, d.Enqueue(EventLike, func(context.Context) (any, error) { panic("boom") }))
	require.NoError(t, d.Enqueue(EventLike, func(context.Context) (any, error) { return "ok", nil }))

	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sender.all(), 1, "only the buildable notification reached the sender")
}

func TestPublisher_InteractionBodies(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, 8, time.Second)
	p := NewPublisher(d, stubViewer{})
	ctx := context.Background()
	snap := testSnap()

	parentID := snap.ID
	reply := &snaps.Snap{ID: "reply-id", AuthorID: "replier", ParentID: &parentID, CreatedAt: snap.CreatedAt}

	require.NoError(t, p.SnapLiked(ctx, "fan", snap))
	require.NoError(t, p.SnapMentioned(ctx, "author", "fan", snap))
	require.NoError(t, p.SnapReplied(ctx, reply, snap))
	require.NoError(t, d.Close(ctx))

	got := sender.all()
	require.Len(t, got, 3)

	like := got[0].body.(InteractionBody)
	assert.Equal(t, EventLike, got[0].event)
	assert.Equal(t, "fan", like.FromID)
	assert.Equal(t, "author", like.ToID)
	assert.Equal(t, "author_name", like.Snap.Username, "rendered from the author's view")
	assert.Equal(t, 4, like.Snap.NumReplies)
	assert.Equal(t, 2, like.Snap.Likes)
	assert.Equal(t, "2024-03-01T12:00:00Z", like.Snap.CreatedAt)

	mention := got[1].body.(InteractionBody)
	assert.Equal(t, EventMention, got[1].event)
	assert.Equal(t, "fan", mention.ToID)

	replyBody := got[2].body.(InteractionBody)
	assert.Equal(t, EventReply, got[2].event)
	assert.Equal(t, "replier", replyBody.FromID)
	assert.Equal(t, "author", replyBody.ToID)
	require.NotNil(t, replyBody.Snap.ParentID)
	assert.Equal(t, snap.ID, *replyBody.Snap.ParentID)
}

func TestPublisher_TrendingBodies(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, 8, time.Second)
	p := NewPublisher(d, nil)
	ctx := context.Background()
	topic := &trending.Topic{ID: "t1", Name: "#go", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, p.TopicTrending(ctx, topic))
	require.NoError(t, p.TrendingSnap(ctx, topic, testSnap()))
	require.NoError(t, d.Close(ctx))

	got := sender.all()
	require.Len(t, got, 2)

	plain := got[0].body.(TrendingBody)
	assert.Equal(t, EventTrending, got[0].event)
	assert.Equal(t, "#go", plain.Topic.Name)
	assert.Nil(t, plain.Snap)

	data, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":{"id":"t1","name":"#go","created_at":"2024-03-01T00:00:00Z"}}`, string(data))

	withSnap := got[1].body.(TrendingBody)
	assert.Equal(t, EventTrendingSnap, got[1].event)
	require.NotNil(t, withSnap.Snap)
	assert.Equal(t, "author", withSnap.Snap.Author)
	assert.Empty(t, withSnap.Snap.Username, "no viewer configured")
}

func TestPublisher_ViewFailureDropsNotification(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, 8, time.Second)
	p := NewPublisher(d, stubViewer{err: errors.New("identity down")})

	require.NoError(t, p.SnapLiked(context.Background(), "fan", testSnap()))
	require.NoError(t, d.Close(context.Background()))
	assert.Empty(t, sender.all())
}
