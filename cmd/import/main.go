// Command import loads lessons and quiz questions from an .xlsx workbook
// into the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stevemurr/study-app-server/config"
	"github.com/stevemurr/study-app-server/importer"
	"github.com/stevemurr/study-app-server/logger"
	"github.com/stevemurr/study-app-server/service"
	"github.com/stevemurr/study-app-server/store"
)

func main() {
	defaults := importer.DefaultConfig()
	file := flag.String("file", "", "path to the .xlsx workbook")
	lessonSheet := flag.String("lessons-sheet", defaults.LessonSheet, "sheet holding lessons")
	quizSheet := flag.String("quizzes-sheet", defaults.QuizSheet, "sheet holding quiz questions")
	startRow := flag.Int("start-row", defaults.StartRow, "first data row (1-based)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file lessons.xlsx")
		os.Exit(2)
	}

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	st, err := store.New(ctx, store.Options{
		Backend:      cfg.StoreBackend,
		DatabaseURL:  cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		DataDir:      cfg.DataDir,
	})
	if err != nil {
		log.Fatal("failed to create store", "backend", cfg.StoreBackend, "error", err)
	}
	defer st.Close()

	res, err := importer.Import(ctx, service.New(st, log), importer.Config{
		FilePath:    *file,
		LessonSheet: *lessonSheet,
		QuizSheet:   *quizSheet,
		StartRow:    *startRow,
	})
	if err != nil {
		log.Fatal("import failed", "file", *file, "error", err)
	}
	for _, e := range res.Errors {
		log.Warn("row rejected", "detail", e)
	}
	log.Info("import finished",
		"lessons", res.LessonsCreated,
		"quizzes", res.QuizzesCreated,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
	)
}
