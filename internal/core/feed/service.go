package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/visibility"
	"ContentDiscovery/internal/identity"
)

// annotateConcurrency caps the lookups one page fans out to
const annotateConcurrency = 16

type feedService struct {
	repo     Repository
	identity identity.Client
}

// NewFeedService creates a feed composer backed by the store and the identity service
func NewFeedService(repo Repository, identityClient identity.Client) Service {
	return &feedService{
		repo:     repo,
		identity: identityClient,
	}
}

// Home merges the viewer's and followed users' snaps with the snaps they shared
func (s *feedService) Home(ctx context.Context, viewerID string, page Page) ([]SnapView, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(scope.Following)+1)
	members = append(members, scope.Following...)
	members = append(members, viewerID)

	rows, err := s.repo.Home(ctx, members, scope, page)
	if err != nil {
		return nil, fmt.Errorf("failed to load home feed: %w", err)
	}
	return s.annotate(ctx, viewerID, rows)
}

// UserSnaps lists snaps authored by userID. Authors see their own private snaps.
func (s *feedService) UserSnaps(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error) {
	return s.userList(ctx, viewerID, userID, page, s.repo.ByAuthor)
}

func (s *feedService) UserSnapsAndShares(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error) {
	return s.userList(ctx, viewerID, userID, page, s.repo.AuthoredOrShared)
}

func (s *feedService) UserShares(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error) {
	return s.userList(ctx, viewerID, userID, page, s.repo.SharedBy)
}

func (s *feedService) UserFavs(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error) {
	return s.userList(ctx, viewerID, userID, page, s.repo.FavedBy)
}

// FilterByHashtag lists visible snaps carrying a hashtag that contains hashtag
func (s *feedService) FilterByHashtag(ctx context.Context, viewerID, hashtag string, page Page) ([]SnapView, error) {
	hashtag = strings.TrimSpace(hashtag)
	if hashtag == "" {
		return nil, snaps.NewValidationError("hashtag", "hashtag is required")
	}
	return s.search(ctx, viewerID, hashtag, page, s.repo.ByHashtag)
}

// FilterByContent lists visible snaps whose content contains text
func (s *feedService) FilterByContent(ctx context.Context, viewerID, text string, page Page) ([]SnapView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, snaps.NewValidationError("content", "content is required")
	}
	return s.search(ctx, viewerID, text, page, s.repo.ByContent)
}

// GetSnap returns a single snap if the viewer may see it
func (s *feedService) GetSnap(ctx context.Context, viewerID, snapID string) (*SnapView, error) {
	if _, err := snaps.ParseID(snapID); err != nil {
		return nil, err
	}

	snap, err := s.repo.GetByID(ctx, snapID)
	if err != nil {
		return nil, err
	}

	scope := visibility.Scope{ViewerID: viewerID, IncludeOwnPrivate: true}
	if needsFollowGraph(snap, viewerID) {
		scope, err = s.scopeFor(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		scope.IncludeOwnPrivate = true
	}
	if !visibility.CanView(snap, scope) {
		return nil, snaps.ErrSnapNotFound
	}

	return s.View(ctx, viewerID, snap)
}

// Replies lists the visible direct replies to snapID
func (s *feedService) Replies(ctx context.Context, viewerID, snapID string, page Page) ([]SnapView, error) {
	if _, err := snaps.ParseID(snapID); err != nil {
		return nil, err
	}
	if _, err := s.GetSnap(ctx, viewerID, snapID); err != nil {
		return nil, err
	}
	return s.search(ctx, viewerID, snapID, page, s.repo.Replies)
}

// View annotates one snap as it would appear in a feed
func (s *feedService) View(ctx context.Context, viewerID string, snap *snaps.Snap) (*SnapView, error) {
	views, err := s.annotate(ctx, viewerID, []Row{{Snap: snap, SortAt: snap.CreatedAt}})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type listFunc func(ctx context.Context, key string, scope visibility.Scope, page Page) ([]Row, error)

func (s *feedService) userList(ctx context.Context, viewerID, userID string, page Page, list listFunc) ([]SnapView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, snaps.NewValidationError("user", "user is required")
	}
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	scope.IncludeOwnPrivate = viewerID != "" && viewerID == userID

	rows, err := list(ctx, userID, scope, page)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed for %s: %w", userID, err)
	}
	return s.annotate(ctx, viewerID, rows)
}

func (s *feedService) search(ctx context.Context, viewerID, key string, page Page, list listFunc) ([]SnapView, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	rows, err := list(ctx, key, scope, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search snaps: %w", err)
	}
	return s.annotate(ctx, viewerID, rows)
}

// scopeFor fetches the viewer's following list once per request.
// Anonymous viewers and viewers unknown to the identity service follow nobody.
func (s *feedService) scopeFor(ctx context.Context, viewerID string) (visibility.Scope, error) {
	if viewerID == "" {
		return visibility.Scope{}, nil
	}

	following, err := s.identity.Following(ctx, viewerID)
	if errors.Is(err, identity.ErrUserNotFound) {
		return visibility.NewScope(viewerID, nil), nil
	}
	if err != nil {
		return visibility.Scope{}, fmt.Errorf("failed to load following for %s: %w", viewerID, err)
	}
	return visibility.NewScope(viewerID, following), nil
}

// annotate attaches profiles, viewer flags and reply counts to rows.
// The lookups run concurrently and are not a consistent snapshot.
func (s *feedService) annotate(ctx context.Context, viewerID string, rows []Row) ([]SnapView, error) {
	if len(rows) == 0 {
		return []SnapView{}, nil
	}

	ids := make([]string, 0, len(rows))
	people := make(map[string]struct{})
	authors := make(map[string]struct{})
	for _, r := range rows {
		ids = append(ids, r.Snap.ID)
		people[r.Snap.AuthorID] = struct{}{}
		authors[r.Snap.AuthorID] = struct{}{}
		for _, sharer := range r.SharedBy {
			people[sharer] = struct{}{}
		}
	}

	var (
		states   map[string]ViewerState
		replies  map[string]int
		profiles = make(map[string]identity.Profile, len(people))
		mutuals  = make(map[string]bool, len(authors))
		mu       sync.Mutex
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(annotateConcurrency)

	if viewerID != "" {
		g.Go(func() error {
			var err error
			states, err = s.repo.ViewerState(gCtx, viewerID, ids)
			return err
		})
	}

	g.Go(func() error {
		var err error
		replies, err = s.repo.CountReplies(gCtx, ids)
		return err
	})

	for userID := range people {
		g.Go(func() error {
			profile := identity.LookupProfile(gCtx, s.identity, userID)
			mu.Lock()
			profiles[userID] = profile
			mu.Unlock()
			return nil
		})
	}

	for authorID := range authors {
		if viewerID == "" || authorID == viewerID {
			continue
		}
		g.Go(func() error {
			ok, err := s.identity.AreMutuals(gCtx, viewerID, authorID)
			if err != nil {
				slog.Debug("mutual check failed, hiding likes", "viewer_id", viewerID, "author_id", authorID, "error", err)
				return nil
			}
			mu.Lock()
			mutuals[authorID] = ok
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to annotate feed: %w", err)
	}

	views := make([]SnapView, 0, len(rows))
	for _, r := range rows {
		snap := r.Snap
		profile := profiles[snap.AuthorID]
		state := states[snap.ID]

		view := SnapView{
			ID:              snap.ID,
			Author:          snap.AuthorID,
			Content:         snap.Content,
			ParentID:        snap.ParentID,
			CreatedAt:       snap.CreatedAt,
			Shares:          snap.Shares,
			Favs:            snap.Favs,
			Visibility:      snap.Visibility,
			Privacy:         snap.Privacy,
			Username:        profile.Username,
			FullName:        profile.FullName,
			ProfilePhotoURL: profile.ProfilePhotoURL,
			NumReplies:      replies[snap.ID],
			HasLiked:        state.Liked,
			HasShared:       state.Shared,
			HasFaved:        state.Faved,
			IsSharedBy:      make([]string, 0, len(r.SharedBy)),
		}

		if viewerID != "" && (snap.AuthorID == viewerID || mutuals[snap.AuthorID]) {
			likes := snap.Likes
			view.Likes = &likes
		}

		for _, sharer := range r.SharedBy {
			view.IsSharedBy = append(view.IsSharedBy, profiles[sharer].Username)
		}

		views = append(views, view)
	}
	return views, nil
}

// needsFollowGraph reports whether the follow list can change the outcome for this snap
func needsFollowGraph(snap *snaps.Snap, viewerID string) bool {
	return viewerID != "" &&
		snap.AuthorID != viewerID &&
		snap.Visibility == snaps.VisibilityPublic &&
		snap.Privacy != snaps.PrivacyPublic
}

func requireViewer(viewerID string) error {
	if strings.TrimSpace(viewerID) == "" {
		return snaps.NewValidationError("user_id", "user_id is required")
	}
	return nil
}

// normalizePage applies the default limit and caps it at MaxLimit
func normalizePage(p Page) (Page, error) {
	if p.Offset < 0 {
		return p, snaps.NewValidationError("offset", "offset must be non-negative")
	}
	if p.Limit < 0 {
		return p, snaps.NewValidationError("limit", "limit must be non-negative")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}
