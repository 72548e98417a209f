package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/feedlite/feedlite/internal/database"
	"github.com/feedlite/feedlite/internal/models"
	"github.com/feedlite/feedlite/internal/server"
	"github.com/feedlite/feedlite/internal/store"
)

func main() {
	var (
		st     store.Store
		health func() map[string]string
	)

	switch backend := os.Getenv("FEED_BACKEND"); backend {
	case "", "postgres":
		db, err := database.New()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("ERROR: Failed to close database connection: %v", err)
			}
		}()
		st = store.NewGormStore(db.GetDB())
		health = db.Health
	case "memory":
		mem := store.NewMemoryStore()
		seedDemo(mem)
		st = mem
	default:
		log.Fatalf("FATAL: Unknown FEED_BACKEND %q", backend)
	}

	srv := server.New(st, health)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("FATAL: Server stopped: %v", err)
	}
}

// seedDemo fills the memory backend with the demo accounts and posts so an
// offline run has something to show.
func seedDemo(st store.Store) {
	alice, _, err := st.Register("Alice", "alice@local", "1111")
	if err != nil {
		log.Fatalf("FATAL: Failed to seed demo data: %v", err)
	}
	bob, _, _ := st.Register("Bob", "bob@local", "1111")
	charlie, _, _ := st.Register("Charlie", "charlie@local", "1111")

	_ = st.CreatePost(alice.ID, "sample", "first.png", "")
	_ = st.CreatePost(alice.ID, "sample", "db_ok.png", "")
	_ = st.CreatePost(bob.ID, "sample", "only_text.png", "")
	_ = st.CreatePost(charlie.ID, "", "", "hello from Charlie")

	_, _ = st.ToggleReaction(alice.ID, 1, models.ReactionLike)
	_, _ = st.ToggleReaction(bob.ID, 3, models.ReactionDislike)

	log.Println("Seeded demo users Alice, Bob, Charlie (password 1111)")
}
