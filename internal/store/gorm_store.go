package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feedlite/feedlite/internal/models"
)

// GormStore implements Store over GORM + Postgres. Every operation is one
// or more parameterized statements; ownership checks and uniqueness are
// enforced by WHERE clauses and declared constraints, so it reproduces the
// in-memory backend's semantics with set-based queries.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an already-opened database handle. Acquiring and
// releasing the handle is the caller's concern.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Register creates a user unless the username (case-insensitive) or email
// collides. The check and insert run in one transaction, with the unique
// constraints as the backstop against concurrent registrations.
func (s *GormStore) Register(username, email, password string) (models.User, bool, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, false, err
	}

	user := models.User{Username: username, Email: email, Password: hashed}
	created := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("LOWER(username) = LOWER(?) OR email = ?", username, email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration.
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("register: %w", err)
	}
	return user, created, nil
}

// Login matches by name (case-insensitive) and password.
func (s *GormStore) Login(username, password string) (models.User, bool, error) {
	var user models.User
	if err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}
	if !checkPassword(user.Password, password) {
		return models.User{}, false, nil
	}
	return user, true, nil
}

// LoginByEmail matches by exact email and password.
func (s *GormStore) LoginByEmail(email, password string) (models.User, bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}
	if !checkPassword(user.Password, password) {
		return models.User{}, false, nil
	}
	return user, true, nil
}

// GetUser returns a user by id.
func (s *GormStore) GetUser(id int) (models.User, bool, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}
	return user, true, nil
}

// ListRecent returns at most limit posts, newest id first, annotated for
// the viewer.
func (s *GormStore) ListRecent(viewerID, limit int) ([]models.PostView, error) {
	var posts []models.Post
	if err := s.db.Preload("User").Order("id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return s.annotate(posts, viewerID)
}

// likeEscaper neutralizes LIKE metacharacters so a keyword matches them
// literally, as the in-memory backend does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search filters on body, file name, or author name, case-insensitively.
func (s *GormStore) Search(viewerID int, keyword string, limit int) ([]models.PostView, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(keyword)) + "%"
	var posts []models.Post
	if err := s.db.Preload("User").
		Joins("JOIN users ON users.id = posts.author_id").
		Where(`posts.body ILIKE ? ESCAPE '\' OR posts.file_name ILIKE ? ESCAPE '\' OR users.username ILIKE ? ESCAPE '\'`, pattern, pattern, pattern).
		Order("posts.id DESC").Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return s.annotate(posts, viewerID)
}

// annotate derives, as of read time, the aggregate counts and the
// viewer's own state for each post.
func (s *GormStore) annotate(posts []models.Post, viewerID int) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		likes, dislikes, err := s.reactionCounts(p.ID)
		if err != nil {
			return nil, err
		}
		my, err := s.viewerState(viewerID, p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.PostView{
			ID:           p.ID,
			AuthorID:     p.AuthorID,
			AuthorName:   p.User.Username,
			Body:         p.Body,
			FilePath:     p.FilePath,
			FileName:     p.FileName,
			CreatedAt:    p.CreatedAt,
			LikeCount:    likes,
			DislikeCount: dislikes,
			MyReaction:   my,
		})
	}
	return views, nil
}

func (s *GormStore) reactionCounts(postID int) (int, int, error) {
	var likes, dislikes int64
	if err := s.db.Model(&models.Reaction{}).
		Where("post_id = ? AND type = ?", postID, string(models.ReactionLike)).
		Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	if err := s.db.Model(&models.Reaction{}).
		Where("post_id = ? AND type = ?", postID, string(models.ReactionDislike)).
		Count(&dislikes).Error; err != nil {
		return 0, 0, err
	}
	return int(likes), int(dislikes), nil
}

func (s *GormStore) viewerState(viewerID, postID int) (models.ReactionState, error) {
	var r models.Reaction
	err := s.db.Where("user_id = ? AND post_id = ?", viewerID, postID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ReactionNone, nil
	}
	if err != nil {
		return models.ReactionNone, err
	}
	return models.ReactionState(r.Type), nil
}

// CreatePost appends a post with a database-assigned id and timestamp.
func (s *GormStore) CreatePost(authorID int, filePath, fileName, body string) error {
	post := models.Post{
		AuthorID: authorID,
		Body:     body,
		FilePath: filePath,
		FileName: fileName,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// UpdatePost replaces the text body, author only.
func (s *GormStore) UpdatePost(editorID, postID int, body string) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != editorID {
		return ErrNotOwner
	}
	return s.db.Model(&post).Update("body", body).Error
}

// DeletePost removes the post plus its reactions and comments in one
// transaction, author only.
func (s *GormStore) DeletePost(requesterID, postID int) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != requesterID {
		return ErrNotOwner
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Reaction{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// ToggleReaction wraps the check and the mutation in one transaction with
// the current row locked, so concurrent toggles on the same pair cannot
// race into a duplicate row or a lost update.
func (s *GormStore) ToggleReaction(userID, postID int, requested models.ReactionState) (models.ReactionState, error) {
	if !requested.Requestable() {
		return models.ReactionNone, fmt.Errorf("invalid reaction %q", requested)
	}

	next := models.ReactionNone
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		var existing models.Reaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Type == string(requested) {
				next = models.ReactionNone
				return tx.Delete(&existing).Error
			}
			next = requested
			return tx.Model(&existing).Update("type", string(requested)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			next = requested
			return tx.Create(&models.Reaction{
				UserID: userID,
				PostID: postID,
				Type:   string(requested),
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return models.ReactionNone, err
	}
	return next, nil
}

// ListComments returns a post's comments in creation order.
func (s *GormStore) ListComments(postID int) ([]models.CommentView, error) {
	var comments []models.Comment
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{
			ID:         c.ID,
			PostID:     c.PostID,
			AuthorID:   c.AuthorID,
			AuthorName: c.User.Username,
			Body:       c.Body,
			CreatedAt:  c.CreatedAt,
		})
	}
	return views, nil
}

// AddComment appends a comment to an existing post.
func (s *GormStore) AddComment(authorID, postID int, body string) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	comment := models.Comment{PostID: postID, AuthorID: authorID, Body: body}
	if err := s.db.Create(&comment).Error; err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}
