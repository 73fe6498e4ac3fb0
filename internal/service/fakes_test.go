package service_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/repo"
	"github.com/tazhibayda/club-service/internal/ws"
)

// memStore is an in-memory stand-in for repo.Store with the same observable
// semantics: missing rows come back (nil, nil), the like pair is unique,
// soft-deleted comments stay out of every listing.
type memStore struct {
	mu sync.Mutex

	users    map[primitive.ObjectID]*domain.User
	posts    map[primitive.ObjectID]*domain.Post
	comments map[primitive.ObjectID]*domain.Comment
	order    []primitive.ObjectID

	likes map[string]*domain.Like

	notifs     map[primitive.ObjectID]*domain.Notification
	notifOrder []primitive.ObjectID

	// likeInsertHook runs before the uniqueness check, to model a racing insert
	likeInsertHook func()
	userErr        error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[primitive.ObjectID]*domain.User),
		posts:    make(map[primitive.ObjectID]*domain.Post),
		comments: make(map[primitive.ObjectID]*domain.Comment),
		likes:    make(map[string]*domain.Like),
		notifs:   make(map[primitive.ObjectID]*domain.Notification),
	}
}

func (m *memStore) addUser(name, email string) *domain.User {
	u := &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addPost(author *domain.User, clubID *primitive.ObjectID) *domain.Post {
	p := &domain.Post{ID: primitive.NewObjectID(), AuthorID: author.ID, ClubID: clubID, Content: "post"}
	m.posts[p.ID] = p
	return p
}

func (m *memStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.users[id], nil
}

func (m *memStore) FindPostByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id], nil
}

func (m *memStore) CreateComment(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.comments[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memStore) FindCommentByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) UpdateCommentContent(_ context.Context, id primitive.ObjectID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.Deleted {
		return repo.ErrNotFound
	}
	c.Content = content
	c.Edited = true
	return nil
}

func (m *memStore) ActiveChildIDs(_ context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[primitive.ObjectID]bool, len(parentIDs))
	for _, id := range parentIDs {
		set[id] = true
	}
	var out []primitive.ObjectID
	for _, id := range m.order {
		c := m.comments[id]
		if c.Deleted || c.ParentID == nil {
			continue
		}
		if set[*c.ParentID] {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

func (m *memStore) SoftDeleteComments(_ context.Context, ids []primitive.ObjectID, deletedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if c, ok := m.comments[id]; ok && !c.Deleted {
			c.Deleted = true
			at := deletedAt
			c.DeletedAt = &at
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListTopLevelComments(_ context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Comment, error) {
	return m.filterComments(func(c *domain.Comment) bool {
		return c.PostID == postID && c.ParentID == nil
	}, limit, skip), nil
}

func (m *memStore) ListReplies(_ context.Context, rootID primitive.ObjectID) ([]domain.Comment, error) {
	return m.filterComments(func(c *domain.Comment) bool {
		return c.RootParentID != nil && *c.RootParentID == rootID
	}, 0, 0), nil
}

func (m *memStore) ListAllComments(_ context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	return m.filterComments(func(c *domain.Comment) bool {
		return c.PostID == postID
	}, 0, 0), nil
}

func (m *memStore) filterComments(keep func(*domain.Comment) bool, limit, skip int) []domain.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, id := range m.order {
		c := m.comments[id]
		if c.Deleted || !keep(c) {
			continue
		}
		out = append(out, *c)
	}
	if skip > 0 {
		if skip >= len(out) {
			return nil
		}
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func likeKey(postID, userID primitive.ObjectID) string {
	return postID.Hex() + "/" + userID.Hex()
}

func (m *memStore) InsertLike(_ context.Context, l *domain.Like) error {
	if m.likeInsertHook != nil {
		m.likeInsertHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := likeKey(l.PostID, l.UserID)
	if _, ok := m.likes[k]; ok {
		return repo.ErrDuplicateLike
	}
	l.ID = primitive.NewObjectID()
	l.CreatedAt = time.Now().UTC()
	cp := *l
	m.likes[k] = &cp
	return nil
}

func (m *memStore) DeleteLike(_ context.Context, postID, userID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := likeKey(postID, userID)
	if _, ok := m.likes[k]; !ok {
		return false, nil
	}
	delete(m.likes, k)
	return true, nil
}

func (m *memStore) HasLike(_ context.Context, postID, userID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[likeKey(postID, userID)]
	return ok, nil
}

func (m *memStore) CountLikes(_ context.Context, postID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListLikes(_ context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Like
	for _, l := range m.likes {
		if l.PostID == postID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memStore) CreateNotification(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	cp := *n
	m.notifs[n.ID] = &cp
	m.notifOrder = append(m.notifOrder, n.ID)
	return nil
}

func (m *memStore) FindNotificationByID(_ context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifs[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *memStore) ListNotifications(_ context.Context, recipientID primitive.ObjectID, unreadOnly bool, limit, skip int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	// newest first
	for i := len(m.notifOrder) - 1; i >= 0; i-- {
		n := m.notifs[m.notifOrder[i]]
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	if skip > 0 {
		if skip >= len(out) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountUnreadNotifications(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.notifs {
		if v.RecipientID == recipientID && !v.Read {
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarkNotificationRead(_ context.Context, id primitive.ObjectID, readAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifs[id]
	if !ok || n.Read {
		return false, nil
	}
	n.Read = true
	at := readAt
	n.ReadAt = &at
	return true, nil
}

func (m *memStore) MarkAllNotificationsRead(_ context.Context, recipientID primitive.ObjectID, readAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.notifs {
		if v.RecipientID == recipientID && !v.Read {
			v.Read = true
			at := readAt
			v.ReadAt = &at
			n++
		}
	}
	return n, nil
}

type pushRecord struct {
	Kind   string // "user" | "club"
	Target string
	Env    ws.Envelope
}

type fakePusher struct {
	mu      sync.Mutex
	records []pushRecord
}

func (p *fakePusher) SendToUser(handle string, env ws.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, pushRecord{Kind: "user", Target: handle, Env: env})
}

func (p *fakePusher) BroadcastToClub(clubID string, env ws.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, pushRecord{Kind: "club", Target: clubID, Env: env})
}

func (p *fakePusher) byType(typ, action string) []pushRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushRecord
	for _, r := range p.records {
		if r.Env.Type == typ && r.Env.Action == action {
			out = append(out, r)
		}
	}
	return out
}
