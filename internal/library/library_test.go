package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/stride/internal/models"
)

// TestLoadEmbeddedCatalog verifies the embedded default catalog parses and
// covers every session type the generator asks for.
func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	types := make(map[models.SessionType]bool)
	for _, tpl := range c.All() {
		if tpl.ID == "" || tpl.Title == "" {
			t.Errorf("template %+v missing id or title", tpl)
		}
		types[tpl.Type] = true
	}
	for _, want := range []models.SessionType{
		models.TypeEasy, models.TypeLong, models.TypeThreshold,
		models.TypeInterval, models.TypeTempo, models.TypeRecovery,
	} {
		if !types[want] {
			t.Errorf("catalog has no %s templates", want)
		}
	}
}

// TestFindEffortBand verifies Find matches within one RPE point of the asked
// effort and nothing beyond.
func TestFindEffortBand(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Build-phase threshold templates sit at efforts 5-6; asking for 7 still
	// reaches the 6s, asking for 8 reaches nothing.
	got := c.Find(models.TypeThreshold, models.PhaseBuild, 7, models.Distance10K, nil)
	if len(got) == 0 {
		t.Fatal("Find(SEUIL, build, 7) found nothing, want the effort-6 templates")
	}
	for _, tpl := range got {
		if tpl.Effort < 6 || tpl.Effort > 8 {
			t.Errorf("template %s effort %d outside band [6, 8]", tpl.ID, tpl.Effort)
		}
	}

	if got := c.Find(models.TypeThreshold, models.PhaseBuild, 8, models.Distance10K, nil); len(got) != 0 {
		t.Errorf("Find(SEUIL, build, 8) = %d templates, want 0", len(got))
	}
}

// TestFindRespectsRaceSpecificity verifies race-tagged templates only match
// their target races while generic ones always do.
func TestFindRespectsRaceSpecificity(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// vma-peak-5x1000 and vma-peak-ladder are tagged for 5km/10km.
	for _, tpl := range c.Find(models.TypeInterval, models.PhasePeak, 8, models.DistanceMarathon, nil) {
		if len(tpl.Races) > 0 {
			t.Errorf("marathon lookup returned race-specific template %s (races %v)", tpl.ID, tpl.Races)
		}
	}
	got := c.Find(models.TypeInterval, models.PhasePeak, 8, models.Distance5K, nil)
	if len(got) == 0 {
		t.Error("Find(VMA, peak, 8, 5km) found nothing, want the 5km-tagged templates")
	}
}

// TestFindExcludes verifies the anti-repetition exclusion set is honored.
func TestFindExcludes(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	all := c.Find(models.TypeEasy, models.PhaseBase, 3, models.Distance10K, nil)
	if len(all) < 2 {
		t.Fatalf("want at least 2 base easy templates, got %d", len(all))
	}
	exclude := map[string]bool{all[0].ID: true}
	rest := c.Find(models.TypeEasy, models.PhaseBase, 3, models.Distance10K, exclude)
	if len(rest) != len(all)-1 {
		t.Errorf("got %d templates after excluding one, want %d", len(rest), len(all)-1)
	}
	for _, tpl := range rest {
		if tpl.ID == all[0].ID {
			t.Errorf("excluded template %s still returned", tpl.ID)
		}
	}
}

// TestByPhase verifies the effort-blind fallback lookup.
func TestByPhase(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := c.ByPhase(models.TypeInterval, models.PhaseBuild, models.Distance10K)
	if len(got) == 0 {
		t.Fatal("ByPhase(VMA, build) found nothing")
	}
	for _, tpl := range got {
		if tpl.Type != models.TypeInterval || tpl.Phase != models.PhaseBuild {
			t.Errorf("template %s is %s/%s, want VMA/build", tpl.ID, tpl.Type, tpl.Phase)
		}
	}

	// The fallback still honors race tags: peak long runs for a 5km block
	// exclude the half/marathon race rehearsal.
	for _, tpl := range c.ByPhase(models.TypeLong, models.PhasePeak, models.Distance5K) {
		if len(tpl.Races) > 0 {
			t.Errorf("5km fallback returned race-specific template %s (races %v)", tpl.ID, tpl.Races)
		}
	}
}

// TestLoadFileRejectsDuplicateIDs verifies catalog validation catches
// duplicate template ids.
func TestLoadFileRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `templates:
  - id: dup
    title: First
    type: EF
    phase: base
    effort: 3
    level: 3
  - id: dup
    title: Second
    type: EF
    phase: base
    effort: 3
    level: 4
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile(duplicate ids) succeeded, want error")
	}
	if !strings.Contains(err.Error(), "duplicate template id") {
		t.Errorf("error = %v, want duplicate-id message", err)
	}
}

// TestLoadFileRejectsMissingID verifies templates without an id fail
// validation.
func TestLoadFileRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `templates:
  - title: Nameless
    type: EF
    phase: base
    effort: 3
    level: 3
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile(missing id) succeeded, want error")
	}
}

// TestLoadFileMissingPath verifies a missing file surfaces as a wrapped read
// error.
func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile(missing path) succeeded, want error")
	}
}

func TestStructureInterval(t *testing.T) {
	if (Structure{Reps: 6, WorkDistanceM: 400}).Interval() != true {
		t.Error("repetition structure not reported as interval")
	}
	if (Structure{Zone: "easy"}).Interval() != false {
		t.Error("continuous structure reported as interval")
	}
}
