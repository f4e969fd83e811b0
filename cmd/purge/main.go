package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aktagon/asset-seeder/internal/objstore"
	"github.com/aktagon/asset-seeder/internal/sqlgen"
)

const defaultPublicPathPrefix = "uploads"

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: purge <list|delete> <file.sql> [public-path-prefix]")
	}

	command := os.Args[1]
	sqlFile := os.Args[2]
	prefix := defaultPublicPathPrefix
	if len(os.Args) > 3 {
		prefix = os.Args[3]
	}

	_ = godotenv.Load()
	cfg, err := objstore.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	keys, err := referencedKeys(sqlFile, cfg.PublicURL, prefix)
	if err != nil {
		log.Fatal(err)
	}

	switch command {
	case "list":
		for _, key := range keys {
			fmt.Println(key)
		}
		log.Printf("%d objects referenced by %s", len(keys), sqlFile)
	case "delete":
		ctx := context.Background()
		store, err := objstore.NewS3StoreFromConfig(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		if err := deleteKeys(ctx, store, cfg.Bucket, keys, bufio.NewReader(os.Stdin)); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// referencedKeys returns the storage keys of every public URL in a
// generated insert file, in order of first appearance. URLs inside jsonb
// array literals are included.
func referencedKeys(sqlFile, publicURL, prefix string) ([]string, error) {
	content, err := os.ReadFile(sqlFile)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", sqlFile, err)
	}

	seen := make(map[string]bool)
	var keys []string
	add := func(candidate string) {
		key, ok := objstore.KeyFromPublicURL(publicURL, prefix, candidate)
		if !ok || seen[key] {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	}

	for _, lit := range sqlgen.StringLiterals(string(content)) {
		if strings.HasPrefix(lit, "[") {
			var items []string
			if err := json.Unmarshal([]byte(lit), &items); err == nil {
				for _, item := range items {
					add(item)
				}
				continue
			}
		}
		add(lit)
	}

	return keys, nil
}

func deleteKeys(ctx context.Context, store objstore.ObjectStore, bucket string, keys []string, reader *bufio.Reader) error {
	totalRemoved := 0
	for _, key := range keys {
		if !confirmDelete(reader, key) {
			fmt.Printf("  SKIP: %s\n", key)
			continue
		}
		if err := store.DeleteObject(ctx, bucket, key); err != nil {
			log.Printf("Error removing %s: %v", key, err)
			continue
		}
		totalRemoved++
		fmt.Printf("  REMOVED: %s\n", key)
	}

	fmt.Printf("\nRemoved %d of %d objects\n", totalRemoved, len(keys))
	return nil
}

func confirmDelete(reader *bufio.Reader, key string) bool {
	for {
		fmt.Printf("  DELETE %s? [y/N]: ", key)
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("Error reading input: %v", err)
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Println("  Please enter y or n.")
		}
	}
}
