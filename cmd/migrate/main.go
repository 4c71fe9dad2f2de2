// migrate applies database migrations from embedded SQL files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/diabify/platform/internal/db/migrate"
	"github.com/diabify/platform/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.Database.URL(), *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
