package catalog

import (
	"strings"
	"testing"
)

func lvl(n int) *int { return &n }

func validCards() []CardDefinition {
	return []CardDefinition{
		{ID: 1, Name: "Oak", TrophicLevel: lvl(1), Category: CategoryPhotoautotroph, Domain: DomainTerrestrial},
		{ID: 2, Name: "Rabbit", TrophicLevel: lvl(2), Category: CategoryHerbivore, Domain: DomainTerrestrial,
			Cost: []CostRequirement{{Category: CategoryPhotoautotroph, Level: 1, Count: 1}}},
		{ID: 3, Name: "Tick", Category: CategoryParasite, Domain: DomainTerrestrial},
	}
}

func TestNewValidCatalog(t *testing.T) {
	cat, err := New(validCards(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Size() != 3 {
		t.Fatalf("expected 3 cards, got %d", cat.Size())
	}
	if _, ok := cat.Card(2); !ok {
		t.Fatal("card 2 not found")
	}
	ids := cat.CardIDs()
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected id order: %v", ids)
	}
}

func TestNewRejectsBadCards(t *testing.T) {
	tests := []struct {
		name string
		card CardDefinition
		want string
	}{
		{
			name: "non-positive id",
			card: CardDefinition{ID: 0, Name: "Zero", Category: CategoryHerbivore, Domain: DomainMarine},
			want: "id must be positive",
		},
		{
			name: "unknown category",
			card: CardDefinition{ID: 9, Category: "APEX", Domain: DomainMarine},
			want: "unknown trophic category",
		},
		{
			name: "unknown domain",
			card: CardDefinition{ID: 9, Category: CategoryCarnivore, Domain: "LUNAR"},
			want: "unknown domain",
		},
		{
			name: "home domain reserved",
			card: CardDefinition{ID: 9, Category: CategoryCarnivore, Domain: DomainHome},
			want: "HOME domain is reserved",
		},
		{
			name: "parasite with trophic level",
			card: CardDefinition{ID: 9, TrophicLevel: lvl(2), Category: CategoryParasite, Domain: DomainMarine},
			want: "carry no trophic level",
		},
		{
			name: "zero-count cost",
			card: CardDefinition{ID: 9, TrophicLevel: lvl(2), Category: CategoryHerbivore, Domain: DomainMarine,
				Cost: []CostRequirement{{Category: CategoryPhotoautotroph, Level: 1, Count: 0}}},
			want: "cost requirement with count",
		},
		{
			name: "dangling ability",
			card: CardDefinition{ID: 9, TrophicLevel: lvl(2), Category: CategoryHerbivore, Domain: DomainMarine,
				AbilityIDs: []int{42}},
			want: "unknown ability id 42",
		},
		{
			name: "dangling metamorphosis",
			card: CardDefinition{ID: 9, TrophicLevel: lvl(2), Category: CategoryHerbivore, Domain: DomainMarine,
				MetamorphosesFrom: 77},
			want: "references unknown card 77",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]CardDefinition{tt.card}, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestNewRejectsDuplicateCardID(t *testing.T) {
	cards := validCards()
	cards = append(cards, CardDefinition{ID: 1, Name: "Oak again", TrophicLevel: lvl(1), Category: CategoryPhotoautotroph, Domain: DomainTerrestrial})
	if _, err := New(cards, nil); err == nil || !strings.Contains(err.Error(), "duplicate card id 1") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNewRejectsBadAbilities(t *testing.T) {
	tests := []struct {
		name    string
		ability AbilityDefinition
		want    string
	}{
		{
			name:    "unknown trigger",
			ability: AbilityDefinition{ID: 1, Trigger: "WHENEVER", Steps: []EffectStep{{Kind: EffectDrawCard}}},
			want:    "unknown trigger kind",
		},
		{
			name:    "no steps",
			ability: AbilityDefinition{ID: 1, Trigger: TriggerOnPlay},
			want:    "no effect steps",
		},
		{
			name:    "unknown effect kind",
			ability: AbilityDefinition{ID: 1, Trigger: TriggerOnPlay, Steps: []EffectStep{{Kind: "EXPLODE"}}},
			want:    "unknown effect kind",
		},
		{
			name:    "target without selector",
			ability: AbilityDefinition{ID: 1, Trigger: TriggerOnPlay, Steps: []EffectStep{{Kind: EffectTarget, Sub: &EffectStep{Kind: EffectExhaustTarget}}}},
			want:    "TARGET step requires a selector",
		},
		{
			name:    "target without sub",
			ability: AbilityDefinition{ID: 1, Trigger: TriggerOnPlay, Steps: []EffectStep{{Kind: EffectTarget, Selector: SelectorAdjacent}}},
			want:    "TARGET step requires a sub-step",
		},
		{
			name: "nested target",
			ability: AbilityDefinition{ID: 1, Trigger: TriggerOnPlay, Steps: []EffectStep{{
				Kind: EffectTarget, Selector: SelectorAdjacent,
				Sub: &EffectStep{Kind: EffectTarget, Selector: SelectorAdjacent, Sub: &EffectStep{Kind: EffectExhaustTarget}},
			}}},
			want: "TARGET steps do not nest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, []AbilityDefinition{tt.ability})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestRequiresTarget(t *testing.T) {
	with := AbilityDefinition{Steps: []EffectStep{{Kind: EffectTarget, Selector: SelectorAdjacent, Sub: &EffectStep{Kind: EffectExhaustTarget}}}}
	without := AbilityDefinition{Steps: []EffectStep{{Kind: EffectGainEnergy, Value: 2}}}
	if !with.RequiresTarget() {
		t.Error("selector-bearing ability should require a target")
	}
	if without.RequiresTarget() {
		t.Error("selectorless ability should not require a target")
	}
}

func TestScoreValueDefaultsToOne(t *testing.T) {
	plain := CardDefinition{}
	if plain.ScoreValue() != 1 {
		t.Fatalf("expected default score 1, got %d", plain.ScoreValue())
	}
	rich := CardDefinition{VictoryPoints: 3}
	if rich.ScoreValue() != 3 {
		t.Fatalf("expected score 3, got %d", rich.ScoreValue())
	}
}

func TestCategoryPredicates(t *testing.T) {
	if !CategoryPhotoautotroph.IsProducer() || !CategoryChemoautotroph.IsProducer() {
		t.Error("autotrophs are producers")
	}
	if CategorySaprotroph.IsProducer() {
		t.Error("saprotrophs are not producers")
	}
	if !CategoryParasite.IsAttacher() || !CategoryMutualist.IsAttacher() {
		t.Error("parasites and mutualists attach")
	}
	if CategoryCarnivore.IsAttacher() {
		t.Error("carnivores occupy cells")
	}
}
