package tags

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/trending"
)

// Recorder persists the hashtags and mentions of new snaps.
// It implements snaps.TagRecorder.
type Recorder struct {
	repo     Repository
	users    UserResolver
	topics   TopicLister
	notifier Notifier

	// resolveTimeout bounds all username lookups of one snap
	resolveTimeout time.Duration
}

const (
	defaultResolveTimeout = 2 * time.Second
	maxConcurrentResolves = 8
)

// NewRecorder creates a recorder. topics and notifier may be nil.
func NewRecorder(repo Repository, users UserResolver, topics TopicLister, notifier Notifier) *Recorder {
	return &Recorder{
		repo:     repo,
		users:    users,
		topics:   topics,
		notifier: notifier,

		resolveTimeout: defaultResolveTimeout,
	}
}

var _ snaps.TagRecorder = (*Recorder)(nil)

// Record stores hashtags verbatim and mentions with their resolved ids.
// Notification failures are logged here; storage failures are returned joined.
func (r *Recorder) Record(ctx context.Context, snap *snaps.Snap) error {
	var errs []error

	hashtags := ExtractHashtags(snap.Content)
	if len(hashtags) > 0 {
		if err := r.repo.AddHashtags(ctx, snap.ID, hashtags, snap.CreatedAt); err != nil {
			errs = append(errs, err)
		}
		r.announceTrending(ctx, snap, hashtags)
	}

	if usernames := ExtractMentions(snap.Content); len(usernames) > 0 {
		mentions := r.resolve(ctx, usernames)
		if err := r.repo.AddMentions(ctx, snap.ID, mentions, snap.CreatedAt); err != nil {
			errs = append(errs, err)
		} else {
			r.notifyMentions(ctx, snap, mentions)
		}
	}

	return errors.Join(errs...)
}

// resolve looks up each distinct username concurrently. Lookups still
// pending at the deadline fall back to UnknownMentionID.
func (r *Recorder) resolve(ctx context.Context, usernames []string) []Mention {
	mentions := make([]Mention, len(usernames))
	for i, username := range usernames {
		mentions[i] = Mention{MentionedID: UnknownMentionID, Username: username}
	}
	if r.users == nil {
		return mentions
	}

	ctx, cancel := context.WithTimeout(ctx, r.resolveTimeout)
	defer cancel()

	unique := make([]string, 0, len(usernames))
	ids := make(map[string]string, len(usernames))
	for _, username := range usernames {
		if _, seen := ids[username]; !seen {
			ids[username] = UnknownMentionID
			unique = append(unique, username)
		}
	}

	resolved := make([]string, len(unique))
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentResolves)
	for i, username := range unique {
		g.Go(func() error {
			user, err := r.users.ResolveUsername(ctx, username)
			switch {
			case err != nil:
				slog.Debug("mention did not resolve", "username", username, "error", err)
			case user != nil && user.ID != "":
				resolved[i] = user.ID
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, username := range unique {
		if resolved[i] != "" {
			ids[username] = resolved[i]
		}
	}
	for i := range mentions {
		mentions[i].MentionedID = ids[mentions[i].Username]
	}
	return mentions
}

func (r *Recorder) notifyMentions(ctx context.Context, snap *snaps.Snap, mentions []Mention) {
	if r.notifier == nil {
		return
	}

	notified := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		if m.MentionedID == UnknownMentionID || m.MentionedID == snap.AuthorID || notified[m.MentionedID] {
			continue
		}
		notified[m.MentionedID] = true

		if err := r.notifier.SnapMentioned(ctx, snap.AuthorID, m.MentionedID, snap); err != nil {
			slog.Warn("failed to publish mention notification",
				"snap_id", snap.ID,
				"mentioned_id", m.MentionedID,
				"error", err,
			)
		}
	}
}

// announceTrending sends one trending-snap notification when the snap uses a
// hashtag that is trending right now
func (r *Recorder) announceTrending(ctx context.Context, snap *snaps.Snap, hashtags []string) {
	if r.topics == nil || r.notifier == nil || snap.Visibility != snaps.VisibilityPublic {
		return
	}

	topics, err := r.topics.ListTopics(ctx)
	if err != nil {
		slog.Warn("failed to load trending topics", "snap_id", snap.ID, "error", err)
		return
	}

	topic := firstTrending(hashtags, topics)
	if topic == nil {
		return
	}

	if err := r.notifier.TrendingSnap(ctx, topic, snap); err != nil {
		slog.Warn("failed to publish trending snap notification",
			"snap_id", snap.ID,
			"topic", topic.Name,
			"error", err,
		)
	}
}

func firstTrending(hashtags []string, topics []*trending.Topic) *trending.Topic {
	if len(topics) == 0 {
		return nil
	}
	byName := make(map[string]*trending.Topic, len(topics))
	for _, t := range topics {
		byName[t.Name] = t
	}
	for _, h := range hashtags {
		if t, ok := byName[h]; ok {
			return t
		}
	}
	return nil
}
