package store

import (
	"errors"

	"github.com/feedlite/feedlite/internal/models"
)

// Sentinel failures callers distinguish with errors.Is. Anything else an
// operation returns is a backend I/O failure and must be surfaced as-is,
// never swallowed into an empty result.
var (
	// ErrPostNotFound reports an operation against a post id that does
	// not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotOwner reports an edit or delete attempted by a user who is
	// not the post's author. The post is left untouched.
	ErrNotOwner = errors.New("not the post author")
)

// Store is the storage-agnostic feed contract. Every backend must give
// identical observable behavior: same aggregation, same ordering, same
// ownership checks.
//
// Absent results carry an ok=false instead of an error: a failed login or
// a duplicate registration is a normal outcome, not a fault.
type Store interface {
	// Register creates a user. ok is false when the username or email is
	// already taken (username comparison is case-insensitive, matching
	// Login); no row is created in that case. The password is hashed
	// before it is stored.
	Register(username, email, password string) (models.User, bool, error)

	// Login matches a user by name (case-insensitive) and password.
	Login(username, password string) (models.User, bool, error)

	// LoginByEmail matches a user by exact email and password.
	LoginByEmail(email, password string) (models.User, bool, error)

	// GetUser returns a user by id.
	GetUser(id int) (models.User, bool, error)

	// ListRecent returns at most limit posts, newest id first, each
	// annotated with aggregate counts and the viewer's own reaction.
	ListRecent(viewerID, limit int) ([]models.PostView, error)

	// Search is ListRecent filtered to posts whose body, file name, or
	// author name contains keyword (case-insensitive). An empty keyword
	// matches everything.
	Search(viewerID int, keyword string, limit int) ([]models.PostView, error)

	// CreatePost appends a post with a store-assigned id and timestamp.
	// Body, file path, and file name may each be empty.
	CreatePost(authorID int, filePath, fileName, body string) error

	// UpdatePost replaces the text body. Returns ErrPostNotFound or
	// ErrNotOwner when the post is missing or editorID is not its author.
	// The attachment is immutable after creation.
	UpdatePost(editorID, postID int, body string) error

	// DeletePost removes the post along with its reactions and comments.
	// Returns ErrPostNotFound or ErrNotOwner.
	DeletePost(requesterID, postID int) error

	// ToggleReaction applies the reaction state machine for the pair and
	// returns the state the user now holds: requesting the current state
	// clears it, requesting the other one switches directly. Atomic per
	// (userID, postID) pair.
	ToggleReaction(userID, postID int, requested models.ReactionState) (models.ReactionState, error)

	// ListComments returns a post's comments ordered by creation time
	// ascending.
	ListComments(postID int) ([]models.CommentView, error)

	// AddComment appends a comment. Returns ErrPostNotFound when the
	// post does not exist.
	AddComment(authorID, postID int, body string) error
}
