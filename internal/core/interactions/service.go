package interactions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ContentDiscovery/internal/core/snaps"
)

type interactionService struct {
	repo     Repository
	snaps    SnapReader
	notifier Notifier
}

// NewInteractionService creates a new interaction service.
// snapReader and notifier are only needed for like notifications and may be nil.
func NewInteractionService(repo Repository, snapReader SnapReader, notifier Notifier) Service {
	return &interactionService{
		repo:     repo,
		snaps:    snapReader,
		notifier: notifier,
	}
}

// Like records a like and notifies the author the first time a user likes their snap
func (s *interactionService) Like(ctx context.Context, userID, snapID string) error {
	added, err := s.add(ctx, KindLike, userID, snapID)
	if err != nil {
		return err
	}
	if added {
		s.notifyLike(ctx, userID, snapID)
	}
	return nil
}

func (s *interactionService) Unlike(ctx context.Context, userID, snapID string) error {
	return s.remove(ctx, KindLike, userID, snapID)
}

func (s *interactionService) Share(ctx context.Context, userID, snapID string) error {
	_, err := s.add(ctx, KindShare, userID, snapID)
	return err
}

func (s *interactionService) Unshare(ctx context.Context, userID, snapID string) error {
	return s.remove(ctx, KindShare, userID, snapID)
}

func (s *interactionService) Fav(ctx context.Context, userID, snapID string) error {
	_, err := s.add(ctx, KindFav, userID, snapID)
	return err
}

func (s *interactionService) Unfav(ctx context.Context, userID, snapID string) error {
	return s.remove(ctx, KindFav, userID, snapID)
}

func (s *interactionService) add(ctx context.Context, kind Kind, userID, snapID string) (bool, error) {
	if err := validate(userID, snapID); err != nil {
		return false, err
	}

	added, err := s.repo.Add(ctx, kind, userID, snapID)
	if err != nil {
		return false, fmt.Errorf("failed to add %s: %w", kind, err)
	}
	return added, nil
}

// remove is idempotent: removing an absent interaction is not an error
func (s *interactionService) remove(ctx context.Context, kind Kind, userID, snapID string) error {
	if err := validate(userID, snapID); err != nil {
		return err
	}

	if _, err := s.repo.Remove(ctx, kind, userID, snapID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	return nil
}

func (s *interactionService) notifyLike(ctx context.Context, likerID, snapID string) {
	if s.notifier == nil || s.snaps == nil {
		return
	}

	snap, err := s.snaps.GetByID(ctx, snapID)
	if err != nil {
		slog.Warn("failed to load liked snap for notification", "snap_id", snapID, "error", err)
		return
	}
	if snap.AuthorID == likerID {
		return
	}

	if err := s.notifier.SnapLiked(ctx, likerID, snap); err != nil {
		slog.Warn("failed to publish like notification",
			"snap_id", snapID,
			"liker_id", likerID,
			"error", err,
		)
	}
}

func validate(userID, snapID string) error {
	if strings.TrimSpace(userID) == "" {
		return snaps.NewValidationError("user_id", "user_id is required")
	}
	if _, err := snaps.ParseID(snapID); err != nil {
		return err
	}
	return nil
}
