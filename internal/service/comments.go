package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/ws"
)

// Comments manages the two-level comment tree under posts. State changes are
// persisted first; notifications and live broadcasts run after and are never
// allowed to fail the operation.
type Comments struct {
	comments CommentStore
	posts    PostReader
	users    UserReader
	notifs   *Notifications
	push     Pusher
}

func NewComments(comments CommentStore, posts PostReader, users UserReader, notifs *Notifications, push Pusher) *Comments {
	return &Comments{comments: comments, posts: posts, users: users, notifs: notifs, push: push}
}

func (s *Comments) Create(ctx context.Context, postID, userID primitive.ObjectID, content string, parentID *primitive.ObjectID) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content: %w", ErrInvalidInput)
	}

	post, err := s.posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", postID.Hex(), ErrNotFound)
	}
	author, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
	}

	var parent *domain.Comment
	var rootParentID *primitive.ObjectID
	if parentID != nil {
		parent, err = s.comments.FindCommentByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.Deleted {
			return nil, fmt.Errorf("parent comment %s: %w", parentID.Hex(), ErrNotFound)
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("parent comment belongs to another post: %w", ErrInvalidInput)
		}
		// Normalize to two display levels: a reply to a reply still points at
		// the chain's top-level comment, never at the intermediate one.
		if parent.RootParentID != nil {
			rootParentID = parent.RootParentID
		} else {
			id := parent.ID
			rootParentID = &id
		}
	}

	c := &domain.Comment{
		PostID:       postID,
		AuthorID:     userID,
		ParentID:     parentID,
		RootParentID: rootParentID,
		Content:      content,
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}

	s.afterCreate(ctx, post, parent, c)
	return c, nil
}

// afterCreate runs the side effects of a successful create: a POST_REPLIED
// notification to the parent author, an independent POST_COMMENTED to the post
// author, and a club-scoped broadcast. Each is best-effort.
func (s *Comments) afterCreate(ctx context.Context, post *domain.Post, parent *domain.Comment, c *domain.Comment) {
	actor := c.AuthorID
	var repliedTo *primitive.ObjectID
	if parent != nil && parent.AuthorID != actor {
		id := parent.AuthorID
		repliedTo = &id
		s.notify(ctx, SendInput{
			RecipientID: parent.AuthorID,
			ActorID:     &actor,
			Title:       "New reply",
			Message:     "Someone replied to your comment",
			Type:        domain.NotifPostReplied,
			Related:     related(post),
		})
	}
	if post.AuthorID != actor && (repliedTo == nil || post.AuthorID != *repliedTo) {
		s.notify(ctx, SendInput{
			RecipientID: post.AuthorID,
			ActorID:     &actor,
			Title:       "New comment",
			Message:     "Someone commented on your post",
			Type:        domain.NotifPostCommented,
			Related:     related(post),
		})
	}
	s.broadcast(post, ws.Envelope{Type: "comment", Action: "NEW", Payload: c})
}

func (s *Comments) Edit(ctx context.Context, commentID, editorID primitive.ObjectID, newContent string) (*domain.Comment, error) {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return nil, fmt.Errorf("content: %w", ErrInvalidInput)
	}
	c, err := s.comments.FindCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Deleted {
		return nil, fmt.Errorf("comment %s: %w", commentID.Hex(), ErrNotFound)
	}
	if c.AuthorID != editorID {
		return nil, fmt.Errorf("comment %s: %w", commentID.Hex(), ErrForbidden)
	}
	if err := s.comments.UpdateCommentContent(ctx, commentID, newContent); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	c.Content = newContent
	c.Edited = true

	if post, perr := s.posts.FindPostByID(ctx, c.PostID); perr == nil && post != nil {
		s.broadcast(post, ws.Envelope{Type: "comment", Action: "EDIT", Payload: c})
	}
	return c, nil
}

// SoftDelete removes the comment and its whole reply subtree. The subtree is
// collected breadth first over direct parent links with an explicit queue,
// then removed in a single bulk update.
func (s *Comments) SoftDelete(ctx context.Context, commentID, requesterID primitive.ObjectID) error {
	c, err := s.comments.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil || c.Deleted {
		return fmt.Errorf("comment %s: %w", commentID.Hex(), ErrNotFound)
	}

	post, err := s.posts.FindPostByID(ctx, c.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post %s: %w", c.PostID.Hex(), ErrNotFound)
	}
	if c.AuthorID != requesterID && post.AuthorID != requesterID {
		return fmt.Errorf("comment %s: %w", commentID.Hex(), ErrForbidden)
	}

	doomed := []primitive.ObjectID{commentID}
	frontier := []primitive.ObjectID{commentID}
	for len(frontier) > 0 {
		children, err := s.comments.ActiveChildIDs(ctx, frontier)
		if err != nil {
			return fmt.Errorf("collect descendants: %w", err)
		}
		doomed = append(doomed, children...)
		frontier = children
	}

	if _, err := s.comments.SoftDeleteComments(ctx, doomed, time.Now().UTC()); err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}

	s.broadcast(post, ws.Envelope{
		Type: "comment", Action: "DELETE",
		Payload: map[string]interface{}{"id": commentID.Hex(), "removed": len(doomed)},
	})
	return nil
}

func (s *Comments) ListTopLevel(ctx context.Context, postID primitive.ObjectID, page, size int) ([]domain.Comment, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return s.comments.ListTopLevelComments(ctx, postID, size, page*size)
}

func (s *Comments) ListReplies(ctx context.Context, rootID primitive.ObjectID) ([]domain.Comment, error) {
	return s.comments.ListReplies(ctx, rootID)
}

func (s *Comments) ListAllFlat(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	return s.comments.ListAllComments(ctx, postID)
}

func (s *Comments) notify(ctx context.Context, in SendInput) {
	if s.notifs == nil {
		return
	}
	if err := s.notifs.SendToUser(ctx, in); err != nil {
		log.FromContext(ctx).Warn("comment notification failed",
			zap.String("type", string(in.Type)), zap.Error(err))
	}
}

func (s *Comments) broadcast(post *domain.Post, env ws.Envelope) {
	if s.push == nil || post.ClubID == nil {
		return
	}
	s.push.BroadcastToClub(post.ClubID.Hex(), env)
}

func related(post *domain.Post) domain.RelatedIDs {
	id := post.ID
	return domain.RelatedIDs{ClubID: post.ClubID, PostID: &id}
}
