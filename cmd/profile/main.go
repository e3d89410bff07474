// Command profile prints a player's stats and achievements.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"

	"designrage/internal/config"
	"designrage/internal/profile"
	"designrage/internal/storage"
)

func main() {
	user := flag.String("user", "", "player id (the designrage_uid cookie)")
	flag.Parse()
	if *user == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	p, ok, err := backend.LoadProfile(ctx, *user)
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		log.Fatalf("no profile for %s in the %s store", *user, cfg.Store)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		log.Fatal(err)
	}
	out, err := renderer.Render(profile.Markdown(p))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out)
}
