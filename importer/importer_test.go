package importer_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/stevemurr/study-app-server/importer"
	"github.com/stevemurr/study-app-server/service"
	"github.com/stevemurr/study-app-server/store"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			r := row
			if err := f.SetSheetRow(name, axis, &r); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "lessons.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := service.New(st, nil)

	path := writeWorkbook(t, map[string][][]any{
		"Lessons": {
			{"grade", "subject", "title", "content", "video_url"},
			{5, "Math", "Fractions", "Halves and quarters", ""},
			{7, "Science", "Cells", "The cell", "https://video.example/cells"},
			{},
			{"x", "Math", "Broken", "grade is not a number", ""},
		},
		"Quizzes": {
			{"lesson", "question", "options", "correct_index"},
			{"Fractions", "1/2 + 1/4?", "3/4 | 2/6", 0},
			{"Cells", "Smallest unit of life?", "Cell|Atom|Organ", 0},
			{"Unknown lesson", "Q", "A|B", 0},
			{"Fractions", "Only one option", "A", 0},
		},
	})

	res, err := importer.Import(ctx, svc, func() importer.Config {
		cfg := importer.DefaultConfig()
		cfg.FilePath = path
		return cfg
	}())
	if err != nil {
		t.Fatal(err)
	}
	if res.LessonsCreated != 2 {
		t.Fatalf("expected 2 lessons, got %d (%v)", res.LessonsCreated, res.Errors)
	}
	if res.QuizzesCreated != 2 {
		t.Fatalf("expected 2 quizzes, got %d (%v)", res.QuizzesCreated, res.Errors)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped blank row, got %d", res.Skipped)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Lessons row 5:") || !strings.Contains(res.Errors[0], "grade") {
		t.Fatalf("expected row 5 error naming grade, got %q", res.Errors[0])
	}

	lessons, err := svc.ListLessons(ctx, service.LessonFilter{})
	if err != nil {
		t.Fatal(err)
	}
	var fractionsID string
	for _, l := range lessons {
		if l["title"] == "Fractions" {
			fractionsID, _ = l["id"].(string)
			if l["video_url"] != nil {
				t.Fatalf("expected null video_url, got %v", l["video_url"])
			}
		}
	}
	quizzes, err := svc.ListQuizQuestions(ctx, fractionsID)
	if err != nil {
		t.Fatal(err)
	}
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 quiz for Fractions, got %d", len(quizzes))
	}
	opts, _ := quizzes[0]["options"].([]any)
	if len(opts) != 2 || opts[0] != "3/4" {
		t.Fatalf("unexpected options %v", quizzes[0]["options"])
	}
}

func TestImportRowErrorNamesField(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Lessons": {
			{"grade", "subject", "title", "content", "video_url"},
			{0, "Math", "Zero", "grade below range", ""},
		},
	})
	cfg := importer.DefaultConfig()
	cfg.FilePath = path
	res, err := importer.Import(context.Background(), service.New(store.NewMemoryStore(), nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Lessons row 2: validation failed: grade:") {
		t.Fatalf("expected grade violation, got %q", res.Errors[0])
	}
}

func TestImportAmbiguousTitle(t *testing.T) {
	ctx := context.Background()
	svc := service.New(store.NewMemoryStore(), nil)
	path := writeWorkbook(t, map[string][][]any{
		"Lessons": {
			{"grade", "subject", "title", "content", "video_url"},
			{3, "Math", "Review", "grade 3 review", ""},
			{4, "Math", "Review", "grade 4 review", ""},
		},
		"Quizzes": {
			{"lesson", "question", "options", "correct_index"},
			{"Review", "2 + 2?", "4|5", 0},
		},
	})
	cfg := importer.DefaultConfig()
	cfg.FilePath = path
	res, err := importer.Import(ctx, svc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.LessonsCreated != 2 || res.QuizzesCreated != 0 {
		t.Fatalf("expected 2 lessons and 0 quizzes, got %d/%d", res.LessonsCreated, res.QuizzesCreated)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Quizzes row 2:") {
		t.Fatalf("expected ambiguous title error on row 2, got %v", res.Errors)
	}
	quizzes, err := svc.ListQuizQuestions(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("expected no quizzes stored, got %d", len(quizzes))
	}
}

func TestImportMissingSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Other": {{"a"}}})
	cfg := importer.DefaultConfig()
	cfg.FilePath = path
	if _, err := importer.Import(context.Background(), service.New(store.NewMemoryStore(), nil), cfg); err == nil {
		t.Fatal("expected error for workbook without known sheets")
	}
}

func TestImportMissingFile(t *testing.T) {
	cfg := importer.DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "nope.xlsx")
	if _, err := importer.Import(context.Background(), service.New(store.NewMemoryStore(), nil), cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}
