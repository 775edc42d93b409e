package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writePhoto(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "asha.png")
	if err := imaging.Save(imaging.New(90, 120, color.NRGBA{R: 90, G: 90, B: 200, A: 255}), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_SingleCard(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IDCARD_FONT_DIRS", filepath.Join(dir, "no-fonts"))
	photo := writePhoto(t, dir)
	front := filepath.Join(dir, "front.png")
	pdf := filepath.Join(dir, "card.pdf")

	err := run([]string{
		"-env", filepath.Join(dir, "missing.env"),
		"-name", "Asha Verma", "-roll", "21CE1001", "-branch", "Computer",
		"-photo", photo, "-front", front, "-pdf", pdf,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []string{front, pdf} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
}

func TestRun_SingleCard_MissingName(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{
		"-env", filepath.Join(dir, "missing.env"),
		"-roll", "21CE1001", "-branch", "Computer", "-photo", writePhoto(t, dir),
		"-pdf", filepath.Join(dir, "card.pdf"),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "card.pdf")); statErr == nil {
		t.Error("no document should be written for an invalid record")
	}
}

func TestRun_Batch_SkipsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IDCARD_FONT_DIRS", filepath.Join(dir, "no-fonts"))
	writePhoto(t, dir)
	csv := "Full Name,Roll No,Branch,Photo\n" +
		"Asha Verma,21CE1001,Computer,asha.png\n" +
		",21CE1002,Computer,asha.png\n" +
		"Ravi Kumar,21ME2002,Mechanical,asha.png\n"
	csvPath := filepath.Join(dir, "students.csv")
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "cards")

	err := run([]string{"-env", filepath.Join(dir, "missing.env"), "-csv", csvPath, "-out", out, "-branch", "Computer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"21CE1001_front.png", "21CE1001_back.png", "21CE1001.pdf"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "21CE1002.pdf")); err == nil {
		t.Error("row without a name must be skipped")
	}
	if _, err := os.Stat(filepath.Join(out, "21ME2002.pdf")); err == nil {
		t.Error("row from another branch must be filtered out")
	}
}
