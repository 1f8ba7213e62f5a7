package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/stepup-labs/certauth/adapters/directory"
	"github.com/stepup-labs/certauth/adapters/events"
	"github.com/stepup-labs/certauth/adapters/store"
	"github.com/stepup-labs/certauth/adapters/tokenizer"
	"github.com/stepup-labs/certauth/adapters/verifier"
	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
	"github.com/stepup-labs/certauth/service"
	"github.com/stepup-labs/certauth/transport/http"
)

func main() {
	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		// Random per-process secret so local runs still boot; every
		// restart invalidates all outstanding sessions
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatalf("Failed to generate fallback secret: %v", err)
		}
		secret = []byte(hex.EncodeToString(buf))
		log.Println("WARNING: JWT_SECRET not set, using a random per-process secret")
	}

	var (
		challengeStore ports.ChallengeStore
		identityDir    ports.IdentityDirectory
		eventPub       ports.EventPublisher
	)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}

		redisClient := redis.NewClient(opts)

		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		challengeStore = store.NewRedisStore(redisClient)
		identityDir = directory.NewRedisDirectory(redisClient)
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		memDir := directory.NewMemoryDirectory()
		if seedPath := os.Getenv("IDENTITY_SEED"); seedPath != "" {
			if err := seedDirectory(memDir, seedPath); err != nil {
				log.Fatalf("Failed to load identity seed: %v", err)
			}
		}

		challengeStore = store.NewMemoryStore()
		identityDir = memDir
		eventPub = events.NopPublisher{}
	}

	authService := service.NewAuthService(
		challengeStore,
		identityDir,
		verifier.NewX509Verifier(),
		tokenizer.NewJWTTokenizer(secret),
		eventPub,
	)

	// Setup Gin router
	router := http.SetupRouter(authService)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3001"
	}

	// Start server
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedDirectory loads identity records from a JSON array file.
func seedDirectory(dir *directory.MemoryDirectory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var identities []core.Identity
	if err := json.Unmarshal(data, &identities); err != nil {
		return err
	}

	for _, identity := range identities {
		dir.Add(identity)
	}

	log.Printf("Loaded %d identity records from %s", len(identities), path)

	return nil
}
