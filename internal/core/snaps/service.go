package snaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

type snapService struct {
	repo     Repository
	tags     TagRecorder
	notifier Notifier
	now      func() time.Time
}

// NewSnapService creates a new snap service.
// tags and notifier may be nil, in which case the auxiliary steps are skipped.
func NewSnapService(repo Repository, tags TagRecorder, notifier Notifier) Service {
	return &snapService{
		repo:     repo,
		tags:     tags,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateSnap stores a new top-level snap and records its hashtags and mentions
func (s *snapService) CreateSnap(ctx context.Context, req CreateSnapRequest) (*Snap, error) {
	if err := validateAuthor(req.UserID); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	privacy, err := normalizePrivacy(req.Privacy)
	if err != nil {
		return nil, err
	}

	snap := s.newSnap(req.UserID, content, privacy, nil)
	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to create snap: %w", err)
	}

	s.recordTags(ctx, snap)
	return snap, nil
}

// CreateReply stores a reply to an existing snap and notifies the parent's author
func (s *snapService) CreateReply(ctx context.Context, req CreateReplyRequest) (*Snap, error) {
	if err := validateAuthor(req.UserID); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	privacy, err := normalizePrivacy(req.Privacy)
	if err != nil {
		return nil, err
	}

	parent, err := s.repo.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	reply := s.newSnap(req.UserID, content, privacy, &parentID)
	if err := s.repo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.recordTags(ctx, reply)

	if s.notifier != nil && parent.AuthorID != reply.AuthorID {
		if err := s.notifier.SnapReplied(ctx, reply, parent); err != nil {
			slog.Warn("failed to publish reply notification",
				"snap_id", reply.ID,
				"parent_id", parent.ID,
				"error", err,
			)
		}
	}

	return reply, nil
}

// UpdateSnap replaces the content of a snap owned by req.UserID.
// Hashtags and mentions are recorded at creation only.
func (s *snapService) UpdateSnap(ctx context.Context, req UpdateSnapRequest) (*Snap, error) {
	if err := validateAuthor(req.UserID); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateContent(ctx, req.SnapID, req.UserID, content)
}

// SetVisibility toggles a snap between public and private
func (s *snapService) SetVisibility(ctx context.Context, snapID, userID string, visibility Visibility) (*Snap, error) {
	if err := validateAuthor(userID); err != nil {
		return nil, err
	}
	if !visibility.Valid() {
		return nil, NewValidationError("visibility", fmt.Sprintf("unknown visibility %d", visibility))
	}

	return s.repo.SetVisibility(ctx, snapID, userID, visibility)
}

// DeleteSnap removes a snap with its likes, shares, favs, hashtags and mentions.
// When userID is set the caller must be the author. Missing snaps are a no-op.
func (s *snapService) DeleteSnap(ctx context.Context, snapID, userID string) error {
	if userID != "" {
		snap, err := s.repo.GetByID(ctx, snapID)
		if errors.Is(err, ErrSnapNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if snap.AuthorID != userID {
			return ErrNotAuthorized
		}
	}

	if err := s.repo.Delete(ctx, snapID); err != nil {
		return fmt.Errorf("failed to delete snap: %w", err)
	}
	return nil
}

func (s *snapService) newSnap(authorID, content string, privacy Privacy, parentID *string) *Snap {
	return &Snap{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		ParentID:   parentID,
		Content:    content,
		Visibility: VisibilityPublic,
		Privacy:    privacy,
		CreatedAt:  s.now().UTC(),
	}
}

func (s *snapService) recordTags(ctx context.Context, snap *Snap) {
	if s.tags == nil {
		return
	}
	if err := s.tags.Record(ctx, snap); err != nil {
		slog.Warn("failed to record hashtags and mentions",
			"snap_id", snap.ID,
			"error", err,
		)
	}
}

func validateAuthor(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return NewValidationError("user_id", "user_id is required")
	}
	return nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", NewValidationError("content", "content is required")
	}
	if uniseg.GraphemeClusterCount(content) > MaxContentGraphemes {
		return "", NewValidationError("content",
			fmt.Sprintf("content exceeds %d characters", MaxContentGraphemes))
	}
	return content, nil
}

// normalizePrivacy defaults an omitted privacy to public
func normalizePrivacy(p Privacy) (Privacy, error) {
	if p == 0 {
		return PrivacyPublic, nil
	}
	if !p.Valid() {
		return 0, NewValidationError("privacy", fmt.Sprintf("unknown privacy %d", p))
	}
	return p, nil
}

// ParseID validates a snap id, mapping malformed ids to ErrSnapNotFound
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, ErrSnapNotFound
	}
	return parsed, nil
}
