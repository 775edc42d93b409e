// Command idcard renders student ID cards from flags or a CSV file.
//
// Single card:
//
//	idcard -name "Asha Verma" -roll 21CE1001 -branch Computer -photo me.jpg -front front.png -back back.png -pdf card.pdf
//
// Batch:
//
//	idcard -csv students.csv -out cards/ -branch Computer
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/idcardapp/internal/config"
	"github.com/youruser/idcardapp/internal/document"
	"github.com/youruser/idcardapp/internal/form"
	imagepkg "github.com/youruser/idcardapp/internal/image"
	"github.com/youruser/idcardapp/internal/student"
	"github.com/youruser/idcardapp/internal/util"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fset := flag.NewFlagSet("idcard", flag.ContinueOnError)
	values := map[string]*string{}
	flagNames := map[string]string{
		student.FullName:     "name",
		student.RollNo:       "roll",
		student.Branch:       "branch",
		student.College:      "college",
		student.Address:      "address",
		student.Mobile:       "mobile",
		student.EmergencyNo:  "emergency",
		student.DateOfBirth:  "dob",
		student.BloodGroup:   "blood",
		student.AdmittedYear: "year",
	}
	for _, l := range student.Labels {
		values[l] = fset.String(flagNames[l], "", l)
	}
	photo := fset.String("photo", "", "photo file or http(s) URL")
	front := fset.String("front", "", "write the front side PNG here")
	back := fset.String("back", "", "write the back side PNG here")
	pdf := fset.String("pdf", "", "write the two-page PDF here")
	csvPath := fset.String("csv", "", "batch mode: CSV of student records")
	outDir := fset.String("out", ".", "batch mode: output directory")
	words := fset.String("q", "", "batch mode: only records containing all these words")
	env := fset.String("env", ".env", "optional .env file")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*env)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	fonts, err := imagepkg.LoadFonts(cfg.FontDirs)
	if err != nil {
		logger.Warn("system fonts unavailable, using built-in font", "err", err)
	}
	defer fonts.Close()
	renderer := imagepkg.NewRenderer(fonts, logger)
	fcfg := form.Config{
		College:  cfg.College,
		Document: document.Options{WidthMM: cfg.PDFWidthMM},
		Logger:   logger,
	}

	if *csvPath != "" {
		opt := student.FilterOptions{FreeWords: *words}
		if b := *values[student.Branch]; b != "" {
			opt.Branches = strings.Split(b, ",")
		}
		if y := *values[student.AdmittedYear]; y != "" {
			opt.AdmittedYears = strings.Split(y, ",")
		}
		return runBatch(*csvPath, *outDir, opt, renderer, fcfg, logger)
	}

	f := form.New(renderer, fcfg)
	set := map[string]string{}
	for l, v := range values {
		set[l] = *v
	}
	if err := f.SetFields(nonEmpty(set)); err != nil {
		return err
	}
	f.SetPhoto(*photo)
	if *front == "" && *back == "" && *pdf == "" {
		*pdf = util.SafeName(*values[student.RollNo]) + ".pdf"
	}
	return export(f, *front, *back, *pdf)
}

func export(f *form.Form, front, back, pdf string) error {
	if _, err := f.Generate(); err != nil {
		return err
	}
	if front != "" {
		if _, err := f.SaveFront(front); err != nil {
			return err
		}
	}
	if back != "" {
		if _, err := f.SaveBack(back); err != nil {
			return err
		}
	}
	if pdf != "" {
		if _, err := f.ExportPDF(pdf); err != nil {
			return err
		}
	}
	return nil
}

func runBatch(csvPath, outDir string, opt student.FilterOptions, r *imagepkg.Renderer, cfg form.Config, logger *slog.Logger) error {
	all, err := student.LoadRecordsCSV(csvPath)
	if err != nil {
		return err
	}
	if err := util.EnsureDir(outDir); err != nil {
		return err
	}
	recs := student.Filter(all, opt)
	done := 0
	for i, rec := range recs {
		f := form.New(r, cfg)
		if err := f.SetFields(nonEmpty(rec.Fields)); err != nil {
			return err
		}
		f.SetPhoto(rec.Photo)
		base := filepath.Join(outDir, util.SafeName(rec.Get(student.RollNo)))
		if err := export(f, base+"_front.png", base+"_back.png", base+".pdf"); err != nil {
			logger.Warn("record skipped", "row", i+1, "roll", rec.Get(student.RollNo), "err", err)
			continue
		}
		done++
	}
	logger.Info("batch finished", "matched", len(recs), "written", done, "total", len(all))
	return nil
}

// nonEmpty drops blank values so form defaults survive.
func nonEmpty(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for l, v := range fields {
		if strings.TrimSpace(v) != "" {
			out[l] = v
		}
	}
	return out
}
