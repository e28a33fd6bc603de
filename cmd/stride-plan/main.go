package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/stride/internal/engine"
	"github.com/claude/stride/internal/history"
	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// athleteFile is the YAML input describing one athlete and their goals.
type athleteFile struct {
	Name      string `yaml:"name"`
	Start     string `yaml:"start"`
	Reference struct {
		DistanceM float64 `yaml:"distance_m"`
		TimeS     float64 `yaml:"time_s"`
	} `yaml:"reference"`
	Objectives []struct {
		Name     string `yaml:"name"`
		Date     string `yaml:"date"`
		Distance string `yaml:"distance"`
		Tier     string `yaml:"tier"`
	} `yaml:"objectives"`
	History struct {
		YearKm     float64 `yaml:"year_km"`
		Avg4WeekKm float64 `yaml:"avg_4week_km"`
		LastWeekKm float64 `yaml:"last_week_km"`
	} `yaml:"history"`
	Availability struct {
		SessionsPerWeek int      `yaml:"sessions_per_week"`
		Days            []string `yaml:"days"`
	} `yaml:"availability"`
}

func main() {
	athletePath := flag.String("athlete", "", "path to athlete YAML file")
	catalogPath := flag.String("catalog", "", "alternative workout template catalog (defaults to the embedded one)")
	jsonOut := flag.Bool("json", false, "print the full plan document as JSON")
	outPath := flag.String("out", "", "also write the plan document as JSON to this file")
	list := flag.Bool("list", false, "list previously generated plans and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("stride-plan", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	hist, err := openHistory()
	if err != nil {
		// History is a convenience; generation still works without it.
		log.Warn("plan history unavailable", "error", err)
	} else {
		defer hist.Close()
	}

	if *list {
		if hist == nil {
			fmt.Fprintln(os.Stderr, "Error: plan history unavailable")
			os.Exit(1)
		}
		listHistory(hist)
		return
	}

	if *athletePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: stride-plan -athlete <file.yaml> [-catalog <file.yaml>] [-json] [-out <file.json>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	req, err := loadAthlete(*athletePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lib, err := loadCatalog(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if hist != nil {
		if hash, err := history.HashRequest(req); err == nil {
			if seen, _ := hist.Seen(hash); seen {
				fmt.Fprintln(os.Stderr, "note: a plan with identical inputs was already generated (see -list)")
			}
		}
	}

	doc := engine.Generate(req, lib)

	if hist != nil {
		if _, err := hist.Record(req, doc); err != nil {
			log.Warn("failed to record plan in history", "error", err)
		}
	}

	if *outPath != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outPath, append(data, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printDocument(doc)
}

func openHistory() (*history.DB, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return history.Open(filepath.Join(homeDir, ".stride-plan"))
}

func loadCatalog(path string) (*library.Catalog, error) {
	if path == "" {
		return library.Load()
	}
	return library.LoadFile(path)
}

func loadAthlete(path string) (engine.Request, error) {
	var req engine.Request

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("reading athlete file: %w", err)
	}
	var f athleteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return req, fmt.Errorf("parsing athlete file: %w", err)
	}

	req.Name = f.Name
	req.Start = time.Now()
	if f.Start != "" {
		if req.Start, err = parseDate(f.Start); err != nil {
			return req, fmt.Errorf("invalid start date %q: %w", f.Start, err)
		}
	}
	req.Reference = engine.ReferenceRace{DistanceMeters: f.Reference.DistanceM, TimeSeconds: f.Reference.TimeS}
	req.History = models.AthleteHistory{
		YearKm:     f.History.YearKm,
		Avg4WeekKm: f.History.Avg4WeekKm,
		LastWeekKm: f.History.LastWeekKm,
	}
	req.Availability.SessionsPerWeek = f.Availability.SessionsPerWeek
	for _, d := range f.Availability.Days {
		wd, err := parseWeekday(d)
		if err != nil {
			return req, err
		}
		req.Availability.Days = append(req.Availability.Days, wd)
	}

	for _, o := range f.Objectives {
		date, err := parseDate(o.Date)
		if err != nil {
			return req, fmt.Errorf("invalid objective date %q: %w", o.Date, err)
		}
		tier := models.PriorityTier(o.Tier)
		if tier == "" {
			tier = models.TierPriority
		}
		req.Objectives = append(req.Objectives, models.Objective{
			Name:     o.Name,
			Date:     date,
			Distance: models.DistanceCategory(o.Distance),
			Tier:     tier,
		})
	}

	return req, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseWeekday(s string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(s, wd.String()) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func listHistory(hist *history.DB) {
	entries, err := hist.List(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No plans generated yet.")
		return
	}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s  %-24s %2d weeks  index %.1f  starts %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), name, e.Weeks, e.FitnessIndex,
			e.Start.Format("2006-01-02"))
	}
}

func printDocument(doc engine.Document) {
	fmt.Println("=== Training Plan ===")
	if doc.Name != "" {
		fmt.Printf("  Name:          %s\n", doc.Name)
	}
	fmt.Printf("  Start:         %s\n", doc.Start.Format("2006-01-02"))
	fmt.Printf("  Fitness index: %.1f (%s)\n", doc.FitnessIndex, doc.FitnessLabel)
	fmt.Println()

	fmt.Println("Pace zones:")
	for _, z := range doc.Zones {
		fmt.Printf("  %-11s %s\n", z.Zone, z.Display)
	}
	fmt.Println()

	if len(doc.Warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range doc.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	for _, w := range doc.Weeks {
		deload := ""
		if w.Deload {
			deload = "  [deload]"
		}
		fmt.Printf("Week %d  (%s, %.1f km)%s  %s - %s\n",
			w.Week, w.Phase, w.TotalKm, deload,
			w.Start.Format("Jan 2"), w.End.Format("Jan 2"))
		for _, s := range w.Sessions {
			if s.Rest {
				continue
			}
			detail := ""
			if s.DistanceKm > 0 {
				detail = fmt.Sprintf("  %.1f km", s.DistanceKm)
			} else if s.DurationMin > 0 {
				detail = fmt.Sprintf("  %.0f min", s.DurationMin)
			}
			fmt.Printf("  %-9s %-6s %s%s\n", s.Weekday, s.Type, s.Title, detail)
		}
		fmt.Println()
	}
}
