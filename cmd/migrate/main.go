package main

import (
	"os"

	"github.com/healthpredict/healthpredict-backend/internal/tools/migrate"
)

func main() {
	if err := migrate.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
