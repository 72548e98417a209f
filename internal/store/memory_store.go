package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/feedlite/feedlite/internal/models"
)

// reactionKey identifies the one reaction a user may hold on a post.
type reactionKey struct {
	userID int
	postID int
}

// MemoryStore keeps the feed in process-local maps. Each instance owns its
// state exclusively; independent instances never interfere. Used for tests
// and offline demos.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int]models.User
	posts      map[int]models.Post
	comments   map[int][]models.Comment
	reactions  map[reactionKey]models.ReactionState
	userSeq    int
	postSeq    int
	commentSeq int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int]models.User),
		posts:     make(map[int]models.Post),
		comments:  make(map[int][]models.Comment),
		reactions: make(map[reactionKey]models.ReactionState),
	}
}

// Register creates a user unless the username (case-insensitive) or email
// is already taken. Check-then-insert runs under the write lock.
func (m *MemoryStore) Register(username, email, password string) (models.User, bool, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) || u.Email == email {
			return models.User{}, false, nil
		}
	}

	m.userSeq++
	user := models.User{
		ID:        m.userSeq,
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now().UTC(),
	}
	m.users[user.ID] = user
	return user, true, nil
}

// Login matches by name (case-insensitive) and password.
func (m *MemoryStore) Login(username, password string) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) && checkPassword(u.Password, password) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// LoginByEmail matches by exact email and password.
func (m *MemoryStore) LoginByEmail(email, password string) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email && checkPassword(u.Password, password) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// GetUser returns a user by id.
func (m *MemoryStore) GetUser(id int) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// ListRecent returns at most limit posts, newest id first, annotated for
// the viewer.
func (m *MemoryStore) ListRecent(viewerID, limit int) ([]models.PostView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(viewerID, limit, func(models.Post) bool { return true }), nil
}

// Search filters on body, file name, or author name, case-insensitively.
func (m *MemoryStore) Search(viewerID int, keyword string, limit int) ([]models.PostView, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(viewerID, limit, func(p models.Post) bool {
		if kw == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Body), kw) ||
			strings.Contains(strings.ToLower(p.FileName), kw) ||
			strings.Contains(strings.ToLower(m.users[p.AuthorID].Username), kw)
	}), nil
}

// collect materializes matching posts newest-id-first. Caller holds the
// lock.
func (m *MemoryStore) collect(viewerID, limit int, match func(models.Post) bool) []models.PostView {
	ids := make([]int, 0, len(m.posts))
	for id, p := range m.posts {
		if match(p) {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	views := make([]models.PostView, 0, len(ids))
	for _, id := range ids {
		views = append(views, m.toView(m.posts[id], viewerID))
	}
	return views
}

// toView derives the aggregate counts and the viewer's own state by
// scanning the reaction map. Caller holds the lock.
func (m *MemoryStore) toView(p models.Post, viewerID int) models.PostView {
	var likes, dislikes int
	for key, state := range m.reactions {
		if key.postID != p.ID {
			continue
		}
		switch state {
		case models.ReactionLike:
			likes++
		case models.ReactionDislike:
			dislikes++
		}
	}

	my, ok := m.reactions[reactionKey{viewerID, p.ID}]
	if !ok {
		my = models.ReactionNone
	}

	return models.PostView{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		AuthorName:   m.users[p.AuthorID].Username,
		Body:         p.Body,
		FilePath:     p.FilePath,
		FileName:     p.FileName,
		CreatedAt:    p.CreatedAt,
		LikeCount:    likes,
		DislikeCount: dislikes,
		MyReaction:   my,
	}
}

// CreatePost appends a post with the next id and the current time.
func (m *MemoryStore) CreatePost(authorID int, filePath, fileName, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postSeq++
	m.posts[m.postSeq] = models.Post{
		ID:        m.postSeq,
		AuthorID:  authorID,
		Body:      body,
		FilePath:  filePath,
		FileName:  fileName,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// UpdatePost replaces the text body, author only.
func (m *MemoryStore) UpdatePost(editorID, postID int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	if p.AuthorID != editorID {
		return ErrNotOwner
	}
	p.Body = body
	m.posts[postID] = p
	return nil
}

// DeletePost removes the post plus its reactions and comments, author
// only.
func (m *MemoryStore) DeletePost(requesterID, postID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	if p.AuthorID != requesterID {
		return ErrNotOwner
	}
	delete(m.posts, postID)
	delete(m.comments, postID)
	for key := range m.reactions {
		if key.postID == postID {
			delete(m.reactions, key)
		}
	}
	return nil
}

// ToggleReaction runs the check-and-mutate as one critical section, so
// concurrent toggles on the same pair serialize.
func (m *MemoryStore) ToggleReaction(userID, postID int, requested models.ReactionState) (models.ReactionState, error) {
	if !requested.Requestable() {
		return models.ReactionNone, fmt.Errorf("invalid reaction %q", requested)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return models.ReactionNone, ErrPostNotFound
	}

	key := reactionKey{userID, postID}
	if m.reactions[key] == requested {
		delete(m.reactions, key)
		return models.ReactionNone, nil
	}
	m.reactions[key] = requested
	return requested, nil
}

// ListComments returns a post's comments in creation order.
func (m *MemoryStore) ListComments(postID int) ([]models.CommentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments := m.comments[postID]
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{
			ID:         c.ID,
			PostID:     c.PostID,
			AuthorID:   c.AuthorID,
			AuthorName: m.users[c.AuthorID].Username,
			Body:       c.Body,
			CreatedAt:  c.CreatedAt,
		})
	}
	return views, nil
}

// AddComment appends a comment to an existing post.
func (m *MemoryStore) AddComment(authorID, postID int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return ErrPostNotFound
	}
	m.commentSeq++
	m.comments[postID] = append(m.comments[postID], models.Comment{
		ID:        m.commentSeq,
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}
