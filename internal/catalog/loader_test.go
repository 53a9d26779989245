package catalog

import (
	"strings"
	"testing"
)

const sampleYAML = `
cards:
  - id: 1
    name: Kelp
    trophic_level: 1
    category: PHOTOAUTOTROPH
    domain: MARINE
  - id: 2
    name: Urchin
    trophic_level: 2
    category: HERBIVORE
    domain: MARINE
    cost:
      - category: PHOTOAUTOTROPH
        level: 1
        count: 1
    ability_ids: [10]
    victory_points: 2
abilities:
  - id: 10
    name: Graze
    trigger: ACTIVATED
    energy_cost: 1
    steps:
      - kind: TARGET
        selector: ADJACENT
        filter:
          category: PHOTOAUTOTROPH
        sub:
          kind: EXHAUST_TARGET
`

func TestLoadParsesYAML(t *testing.T) {
	cat, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	urchin, ok := cat.Card(2)
	if !ok {
		t.Fatal("card 2 not found")
	}
	if urchin.Level() != 2 || urchin.Category != CategoryHerbivore || urchin.Domain != DomainMarine {
		t.Fatalf("card 2 parsed wrong: %+v", urchin)
	}
	if len(urchin.Cost) != 1 || urchin.Cost[0].Count != 1 {
		t.Fatalf("cost parsed wrong: %+v", urchin.Cost)
	}
	if urchin.VictoryPoints != 2 {
		t.Fatalf("victory points parsed wrong: %d", urchin.VictoryPoints)
	}

	graze, ok := cat.Ability(10)
	if !ok {
		t.Fatal("ability 10 not found")
	}
	if graze.Trigger != TriggerActivated || graze.EnergyCost != 1 {
		t.Fatalf("ability parsed wrong: %+v", graze)
	}
	step := graze.Steps[0]
	if step.Kind != EffectTarget || step.Selector != SelectorAdjacent {
		t.Fatalf("step parsed wrong: %+v", step)
	}
	if step.Filter == nil || step.Filter.Category != CategoryPhotoautotroph {
		t.Fatalf("filter parsed wrong: %+v", step.Filter)
	}
	if step.Sub == nil || step.Sub.Kind != EffectExhaustTarget {
		t.Fatalf("sub-step parsed wrong: %+v", step.Sub)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("cards: [not a mapping"))
	if err == nil || !strings.Contains(err.Error(), "parse catalog") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadRejectsInvalidCatalog(t *testing.T) {
	_, err := Load([]byte("cards:\n  - id: 1\n    category: NOPE\n    domain: MARINE\n"))
	if err == nil || !strings.Contains(err.Error(), "validate catalog") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
