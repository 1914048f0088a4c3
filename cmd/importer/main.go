package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"freshprep/internal/config"
	"freshprep/internal/db"
	"freshprep/internal/importer"
	mealrepo "freshprep/internal/repository/meal"
	zonerepo "freshprep/internal/repository/zone"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to meal or delivery zone CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	kind, err := importer.DetectKind(f)
	f.Close()
	if err != nil {
		logger.Fatalf("detect csv kind: %v", err)
	}

	f, err = os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, mealrepo.NewPostgres(pool, logger), zonerepo.NewPostgres(pool))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d %s in %s\n", count, kind, time.Since(start).Truncate(time.Millisecond))
}
