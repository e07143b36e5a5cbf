package strategy_test

import (
	"testing"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/strategy"
)

func TestUniverseByNameRoundTrip(t *testing.T) {
	u := strategy.NewUniverse()
	for _, tpl := range u.ListAll() {
		got, err := u.Get(tpl.Name)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tpl.Name, err)
		}
		if got.Name != tpl.Name {
			t.Fatalf("round trip mismatch for %q", tpl.Name)
		}
	}
}

func TestUniverseByFamilyCoversCatalog(t *testing.T) {
	u := strategy.NewUniverse()
	families := []enginemodels.StrategyFamily{
		enginemodels.FamilyShortPremium,
		enginemodels.FamilyLongPremium,
		enginemodels.FamilyHedging,
		enginemodels.FamilyTailTrading,
		enginemodels.FamilyRelativeValue,
	}
	seen := make(map[string]bool)
	for _, f := range families {
		for _, tpl := range u.ByFamily(f) {
			if seen[tpl.Name] {
				t.Fatalf("strategy %q appeared in more than one family", tpl.Name)
			}
			seen[tpl.Name] = true
		}
	}
	all := u.ListAll()
	if len(seen) != len(all) {
		t.Fatalf("union of families has %d entries, catalog has %d", len(seen), len(all))
	}
}

func TestUniverseUnknownName(t *testing.T) {
	u := strategy.NewUniverse()
	if _, err := u.Get("does_not_exist"); err == nil {
		t.Fatal("expected error for unknown strategy name")
	}
}
