package session

import (
	"testing"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/vdot"
)

func testCatalog(t *testing.T) *library.Catalog {
	t.Helper()
	c, err := library.Load()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	return c
}

var testZones = vdot.Zones(50)

// TestResolveFromCatalog verifies a quality slot resolves to a catalog
// template with paced blocks and a structure-derived duration.
func TestResolveFromCatalog(t *testing.T) {
	g := NewGenerator(testCatalog(t), testZones)
	slot := Slot{Role: RoleHighQuality, Type: models.TypeInterval, Effort: 7, Share: Tuning.QualityShare}

	s := g.Resolve(slot, models.PhaseBuild, 2, models.Distance10K)
	if s.TemplateID == "" {
		t.Fatal("resolved session has no template id, want a catalog match")
	}
	if s.Type != models.TypeInterval {
		t.Errorf("type = %s, want %s", s.Type, models.TypeInterval)
	}
	if len(s.Main) == 0 {
		t.Fatal("resolved session has no main blocks")
	}
	if s.Main[0].Pace == "" {
		t.Error("main block has no pace")
	}
	if s.DurationMin <= 0 {
		t.Errorf("interval session duration = %v, want > 0", s.DurationMin)
	}
	if s.Warmup == nil || s.Cooldown == nil {
		t.Error("interval session missing warmup or cooldown")
	}
}

// TestResolveAntiRepetition verifies no template repeats within a week or
// against the previous week.
func TestResolveAntiRepetition(t *testing.T) {
	g := NewGenerator(testCatalog(t), testZones)
	slot := Slot{Role: RoleHighQuality, Type: models.TypeInterval, Effort: 7}

	first := g.Resolve(slot, models.PhaseBuild, 2, models.Distance10K)
	second := g.Resolve(slot, models.PhaseBuild, 2, models.Distance10K)
	if first.TemplateID == second.TemplateID {
		t.Errorf("same week reused template %q", first.TemplateID)
	}

	g.rotate()
	third := g.Resolve(slot, models.PhaseBuild, 3, models.Distance10K)
	if third.TemplateID == first.TemplateID || third.TemplateID == second.TemplateID {
		t.Errorf("next week reused template %q (prior: %q, %q)",
			third.TemplateID, first.TemplateID, second.TemplateID)
	}
}

// TestResolveExhaustionFallsBack verifies the cascade bottoms out in a
// synthesized session instead of repeating or failing once the pool is spent.
func TestResolveExhaustionFallsBack(t *testing.T) {
	c := testCatalog(t)
	g := NewGenerator(c, testZones)
	slot := Slot{Role: RoleHighQuality, Type: models.TypeInterval, Effort: 7}

	pool := len(c.ByPhase(models.TypeInterval, models.PhaseBuild, models.Distance10K))
	seen := make(map[string]bool)
	for i := 0; i < pool; i++ {
		s := g.Resolve(slot, models.PhaseBuild, 2, models.Distance10K)
		if s.TemplateID == "" {
			t.Fatalf("resolution %d synthesized before the pool of %d was spent", i, pool)
		}
		if seen[s.TemplateID] {
			t.Fatalf("template %q repeated", s.TemplateID)
		}
		seen[s.TemplateID] = true
	}

	s := g.Resolve(slot, models.PhaseBuild, 2, models.Distance10K)
	if s.TemplateID != "" {
		t.Errorf("post-exhaustion resolution reused template %q, want synthesized", s.TemplateID)
	}
	if s.Title == "" || len(s.Main) == 0 {
		t.Error("synthesized session missing title or main block")
	}
}

// TestResolveWithoutCatalog verifies a nil catalog always synthesizes usable
// sessions, including warmup and cooldown for quality work.
func TestResolveWithoutCatalog(t *testing.T) {
	g := NewGenerator(nil, testZones)

	easy := g.Resolve(Slot{Role: RoleEasy, Type: models.TypeEasy, Effort: 3}, models.PhaseBase, 1, models.Distance10K)
	if easy.Title == "" || len(easy.Main) == 0 {
		t.Error("synthesized easy session missing title or main block")
	}
	if easy.Warmup != nil {
		t.Error("easy session should not carry a separate warmup")
	}

	quality := g.Resolve(Slot{Role: RoleHighQuality, Type: models.TypeThreshold, Effort: 6}, models.PhaseBuild, 1, models.Distance10K)
	if quality.Warmup == nil || quality.Cooldown == nil {
		t.Error("synthesized quality session missing warmup or cooldown")
	}
}

// TestResolveLevelNearestFallback verifies an off-band effort still lands on
// a same-phase template via the level-nearest path.
func TestResolveLevelNearestFallback(t *testing.T) {
	g := NewGenerator(testCatalog(t), testZones)
	// Build threshold templates stop at effort 6; asking for 9 misses the
	// effort band but must still find a threshold workout.
	s := g.Resolve(Slot{Role: RoleHighQuality, Type: models.TypeThreshold, Effort: 9}, models.PhaseBuild, 4, models.Distance10K)
	if s.TemplateID == "" {
		t.Fatal("off-band effort synthesized, want level-nearest catalog match")
	}
	if s.Type != models.TypeThreshold {
		t.Errorf("type = %s, want %s", s.Type, models.TypeThreshold)
	}
}

func TestClosestLevel(t *testing.T) {
	templates := []library.Template{
		{ID: "a", Level: 3},
		{ID: "b", Level: 6},
		{ID: "c", Level: 9},
	}
	tests := []struct {
		target int
		want   string
	}{
		{1, "a"},
		{5, "b"},
		{6, "b"},
		{10, "c"},
	}
	for _, tt := range tests {
		if got := closestLevel(templates, tt.target); got.ID != tt.want {
			t.Errorf("closestLevel(target %d) = %s, want %s", tt.target, got.ID, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  float64
		want string
	}{
		{10, "10'"},
		{1.5, "1'30"},
		{0.5, "0'30"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.min); got != tt.want {
			t.Errorf("formatMinutes(%v) = %q, want %q", tt.min, got, tt.want)
		}
	}
}
