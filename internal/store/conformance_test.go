package store

import (
	"errors"
	"testing"

	"github.com/feedlite/feedlite/internal/models"
)

// runStoreSuite checks the behavior every backend must share. newStore is
// called per subtest and must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("RegisterUniqueness", func(t *testing.T) {
		st := newStore(t)
		mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		if _, ok, err := st.Register("Alice", "other@example.com", "secret2"); err != nil || ok {
			t.Fatalf("duplicate username accepted: ok=%v err=%v", ok, err)
		}
		if _, ok, err := st.Register("alice", "third@example.com", "secret3"); err != nil || ok {
			t.Fatalf("case-variant username accepted: ok=%v err=%v", ok, err)
		}
		if _, ok, err := st.Register("Carol", "alice@example.com", "secret4"); err != nil || ok {
			t.Fatalf("duplicate email accepted: ok=%v err=%v", ok, err)
		}
		if _, ok, err := st.Register("Carol", "carol@example.com", "secret4"); err != nil || !ok {
			t.Fatalf("distinct user rejected: ok=%v err=%v", ok, err)
		}
	})

	t.Run("LoginCaseInsensitiveName", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		got, ok, err := st.Login("aLiCe", "secret1")
		if err != nil || !ok {
			t.Fatalf("case-insensitive login failed: ok=%v err=%v", ok, err)
		}
		if got.ID != alice.ID {
			t.Fatalf("login returned user %d, want %d", got.ID, alice.ID)
		}
		if _, ok, err := st.Login("Alice", "wrong"); err != nil || ok {
			t.Fatalf("wrong password accepted: ok=%v err=%v", ok, err)
		}
		if _, ok, err := st.Login("Nobody", "secret1"); err != nil || ok {
			t.Fatalf("unknown username accepted: ok=%v err=%v", ok, err)
		}
	})

	t.Run("LoginByEmail", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		got, ok, err := st.LoginByEmail("alice@example.com", "secret1")
		if err != nil || !ok {
			t.Fatalf("email login failed: ok=%v err=%v", ok, err)
		}
		if got.ID != alice.ID {
			t.Fatalf("email login returned user %d, want %d", got.ID, alice.ID)
		}
		if _, ok, err := st.LoginByEmail("alice@example.com", "wrong"); err != nil || ok {
			t.Fatalf("wrong password accepted: ok=%v err=%v", ok, err)
		}
	})

	t.Run("GetUser", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		got, ok, err := st.GetUser(alice.ID)
		if err != nil || !ok {
			t.Fatalf("GetUser failed: ok=%v err=%v", ok, err)
		}
		if got.Username != "Alice" {
			t.Fatalf("GetUser returned %q, want Alice", got.Username)
		}
		if _, ok, err := st.GetUser(alice.ID + 1000); err != nil || ok {
			t.Fatalf("GetUser found a ghost: ok=%v err=%v", ok, err)
		}
	})

	t.Run("ToggleParity", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		postID := mustCreatePost(t, st, alice.ID, "hello")

		// odd number of identical presses holds the state
		for i, want := range []models.ReactionState{models.ReactionLike, models.ReactionNone, models.ReactionLike} {
			got, err := st.ToggleReaction(alice.ID, postID, models.ReactionLike)
			if err != nil {
				t.Fatalf("toggle %d: %v", i, err)
			}
			if got != want {
				t.Fatalf("toggle %d: got %s, want %s", i, got, want)
			}
		}
		// fourth press returns to NONE
		if got, _ := st.ToggleReaction(alice.ID, postID, models.ReactionLike); got != models.ReactionNone {
			t.Fatalf("even press count should clear: got %s", got)
		}
	})

	t.Run("ToggleDirectSwitch", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		postID := mustCreatePost(t, st, alice.ID, "hello")

		if got, _ := st.ToggleReaction(alice.ID, postID, models.ReactionLike); got != models.ReactionLike {
			t.Fatalf("first toggle: got %s, want LIKE", got)
		}
		got, err := st.ToggleReaction(alice.ID, postID, models.ReactionDislike)
		if err != nil {
			t.Fatalf("switch toggle: %v", err)
		}
		if got != models.ReactionDislike {
			t.Fatalf("LIKE then DISLIKE should switch directly: got %s", got)
		}

		views, err := st.ListRecent(alice.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if views[0].LikeCount != 0 || views[0].DislikeCount != 1 {
			t.Fatalf("counts after switch: likes=%d dislikes=%d", views[0].LikeCount, views[0].DislikeCount)
		}
	})

	t.Run("ToggleMissingPost", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		if _, err := st.ToggleReaction(alice.ID, 9999, models.ReactionLike); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("toggle on missing post: got %v, want ErrPostNotFound", err)
		}
	})

	t.Run("FeedOrderingLimitAndCounts", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")
		carol := mustRegister(t, st, "Carol", "carol@example.com", "secret3")
		dave := mustRegister(t, st, "Dave", "dave@example.com", "secret4")

		first := mustCreatePost(t, st, alice.ID, "first")
		second := mustCreatePost(t, st, bob.ID, "second")
		third := mustCreatePost(t, st, alice.ID, "third")

		for _, userID := range []int{alice.ID, bob.ID, carol.ID} {
			if _, err := st.ToggleReaction(userID, first, models.ReactionLike); err != nil {
				t.Fatalf("toggle: %v", err)
			}
		}
		if _, err := st.ToggleReaction(dave.ID, first, models.ReactionDislike); err != nil {
			t.Fatalf("toggle: %v", err)
		}

		views, err := st.ListRecent(dave.ID, 2)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("limit ignored: got %d views", len(views))
		}
		if views[0].ID != third || views[1].ID != second {
			t.Fatalf("ordering: got ids %d,%d want %d,%d", views[0].ID, views[1].ID, third, second)
		}

		all, err := st.ListRecent(dave.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		last := all[len(all)-1]
		if last.ID != first {
			t.Fatalf("expected oldest post last, got id %d", last.ID)
		}
		if last.LikeCount != 3 || last.DislikeCount != 1 {
			t.Fatalf("aggregates: likes=%d dislikes=%d, want 3/1", last.LikeCount, last.DislikeCount)
		}
		if last.MyReaction != models.ReactionDislike {
			t.Fatalf("viewer state: got %s, want DISLIKE", last.MyReaction)
		}
		if all[0].MyReaction != models.ReactionNone {
			t.Fatalf("unreacted post should read NONE, got %s", all[0].MyReaction)
		}
	})

	t.Run("CreatePostDefaults", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")

		if err := st.CreatePost(alice.ID, "", "", "hello"); err != nil {
			t.Fatalf("create: %v", err)
		}

		views, err := st.ListRecent(bob.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("got %d views, want 1", len(views))
		}
		v := views[0]
		if v.AuthorID != alice.ID || v.AuthorName != "Alice" {
			t.Fatalf("author: id=%d name=%q", v.AuthorID, v.AuthorName)
		}
		if v.Body != "hello" || v.FileName != "" || v.FilePath != "" {
			t.Fatalf("content: body=%q file=%q/%q", v.Body, v.FilePath, v.FileName)
		}
		if v.LikeCount != 0 || v.DislikeCount != 0 || v.MyReaction != models.ReactionNone {
			t.Fatalf("fresh post not neutral: %+v", v)
		}
	})

	t.Run("UpdatePostOwnership", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")
		postID := mustCreatePost(t, st, alice.ID, "original")

		if err := st.UpdatePost(bob.ID, postID, "hijacked"); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("non-author edit: got %v, want ErrNotOwner", err)
		}
		views, _ := st.ListRecent(alice.ID, 1)
		if views[0].Body != "original" {
			t.Fatalf("rejected edit mutated body: %q", views[0].Body)
		}

		if err := st.UpdatePost(alice.ID, postID, "revised"); err != nil {
			t.Fatalf("author edit: %v", err)
		}
		views, _ = st.ListRecent(alice.ID, 1)
		if views[0].Body != "revised" {
			t.Fatalf("edit not applied: %q", views[0].Body)
		}

		if err := st.UpdatePost(alice.ID, 9999, "x"); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("edit of missing post: got %v, want ErrPostNotFound", err)
		}
	})

	t.Run("DeletePostOwnershipAndCascade", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")
		postID := mustCreatePost(t, st, alice.ID, "doomed")

		if _, err := st.ToggleReaction(bob.ID, postID, models.ReactionLike); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if err := st.AddComment(bob.ID, postID, "nice"); err != nil {
			t.Fatalf("comment: %v", err)
		}

		if err := st.DeletePost(bob.ID, postID); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("non-author delete: got %v, want ErrNotOwner", err)
		}
		views, _ := st.ListRecent(alice.ID, 10)
		if len(views) != 1 {
			t.Fatalf("rejected delete removed the post")
		}

		if err := st.DeletePost(alice.ID, postID); err != nil {
			t.Fatalf("author delete: %v", err)
		}
		views, _ = st.ListRecent(alice.ID, 10)
		if len(views) != 0 {
			t.Fatalf("post survived delete")
		}
		comments, err := st.ListComments(postID)
		if err != nil {
			t.Fatalf("list comments: %v", err)
		}
		if len(comments) != 0 {
			t.Fatalf("comments survived cascade: %d left", len(comments))
		}

		if err := st.DeletePost(alice.ID, postID); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("second delete: got %v, want ErrPostNotFound", err)
		}
	})

	t.Run("SearchFilters", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")

		if err := st.CreatePost(alice.ID, "uploads", "vacation.png", "sunny beach"); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := st.CreatePost(bob.ID, "", "", "rainy day"); err != nil {
			t.Fatalf("create: %v", err)
		}

		cases := []struct {
			keyword string
			want    int
		}{
			{"BEACH", 1},    // body, case-insensitive
			{"vacation", 1}, // file name
			{"bob", 1},      // author name
			{"nothing", 0},
		}
		for _, tc := range cases {
			got, err := st.Search(alice.ID, tc.keyword, 10)
			if err != nil {
				t.Fatalf("search %q: %v", tc.keyword, err)
			}
			if len(got) != tc.want {
				t.Fatalf("search %q: got %d posts, want %d", tc.keyword, len(got), tc.want)
			}
		}
	})

	t.Run("SearchMatchesWildcardsLiterally", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")

		for _, body := range []string{"50% off today", "505 words", "snake_case name", "snakeXcase name"} {
			if err := st.CreatePost(alice.ID, "", "", body); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		cases := []struct {
			keyword string
			want    string
		}{
			{"50%", "50% off today"},
			{"e_c", "snake_case name"},
		}
		for _, tc := range cases {
			got, err := st.Search(alice.ID, tc.keyword, 10)
			if err != nil {
				t.Fatalf("search %q: %v", tc.keyword, err)
			}
			if len(got) != 1 {
				t.Fatalf("search %q: got %d posts, want exactly the literal match", tc.keyword, len(got))
			}
			if got[0].Body != tc.want {
				t.Fatalf("search %q: matched %q, want %q", tc.keyword, got[0].Body, tc.want)
			}
		}
	})

	t.Run("SearchEmptyKeywordIsPassThrough", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		mustCreatePost(t, st, alice.ID, "one")
		mustCreatePost(t, st, alice.ID, "two")

		recent, err := st.ListRecent(alice.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		searched, err := st.Search(alice.ID, "", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(recent) != len(searched) {
			t.Fatalf("empty keyword diverged: %d vs %d", len(recent), len(searched))
		}
		for i := range recent {
			if recent[i] != searched[i] {
				t.Fatalf("view %d diverged:\nlist:   %+v\nsearch: %+v", i, recent[i], searched[i])
			}
		}
	})

	t.Run("CommentsOrderAndNotFound", func(t *testing.T) {
		st := newStore(t)
		alice := mustRegister(t, st, "Alice", "alice@example.com", "secret1")
		bob := mustRegister(t, st, "Bob", "bob@example.com", "secret2")
		postID := mustCreatePost(t, st, alice.ID, "discuss")

		for _, body := range []string{"first", "second", "third"} {
			if err := st.AddComment(bob.ID, postID, body); err != nil {
				t.Fatalf("add comment: %v", err)
			}
		}

		comments, err := st.ListComments(postID)
		if err != nil {
			t.Fatalf("list comments: %v", err)
		}
		if len(comments) != 3 {
			t.Fatalf("got %d comments, want 3", len(comments))
		}
		for i, want := range []string{"first", "second", "third"} {
			if comments[i].Body != want {
				t.Fatalf("comment %d: got %q, want %q", i, comments[i].Body, want)
			}
			if comments[i].AuthorName != "Bob" {
				t.Fatalf("comment %d author: %q", i, comments[i].AuthorName)
			}
		}

		if err := st.AddComment(bob.ID, 9999, "ghost"); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("comment on missing post: got %v, want ErrPostNotFound", err)
		}
		empty, err := st.ListComments(9999)
		if err != nil {
			t.Fatalf("list comments of missing post: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("missing post has comments: %d", len(empty))
		}
	})
}

func mustRegister(t *testing.T, st Store, username, email, password string) models.User {
	t.Helper()
	user, ok, err := st.Register(username, email, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	if !ok {
		t.Fatalf("register %s: conflict", username)
	}
	return user
}

// mustCreatePost creates a text post and returns its assigned id.
func mustCreatePost(t *testing.T, st Store, authorID int, body string) int {
	t.Helper()
	if err := st.CreatePost(authorID, "", "", body); err != nil {
		t.Fatalf("create post: %v", err)
	}
	views, err := st.ListRecent(authorID, 1)
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("created post missing from feed")
	}
	return views[0].ID
}
