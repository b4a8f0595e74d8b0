package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/engine"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted adventure sessions...")

	corruptedKeys, checkedCount, err := findCorrupted(ctx, client, os.Stdout)
	if err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	// Ask for confirmation before deletion
	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response == "yes" {
		for _, key := range corruptedKeys {
			if err := client.Del(ctx, key).Err(); err != nil {
				fmt.Printf("Failed to delete %s: %v\n", key, err)
			} else {
				fmt.Printf("Deleted %s\n", key)
			}
		}
		fmt.Println("\nCleanup complete!")
	} else {
		fmt.Println("Aborted - no changes made")
	}
}

// findCorrupted returns the session keys whose payload cannot be played:
// unreadable JSON, a missing character, or a character that contradicts its status
func findCorrupted(ctx context.Context, client redis.UniversalClient, out io.Writer) ([]string, int, error) {
	iter := client.Scan(ctx, 0, sessions.KeyPrefix+"*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Fprintf(out, "Error reading %s: %v\n", key, err)
			continue
		}

		var session sessions.SessionData
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			fmt.Fprintf(out, "✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		if session.Character == nil {
			fmt.Fprintf(out, "✗ Missing character in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		cfg := &engine.SessionConfig{Character: session.Character, Status: session.Status}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "✗ Inconsistent session in %s: %v\n", key, err)
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, checkedCount, err
	}

	return corruptedKeys, checkedCount, nil
}
