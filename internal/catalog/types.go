package catalog

import "fmt"

// TrophicCategory classifies a card within its trophic level.
// Mirrors the card data's category enum.
type TrophicCategory string

const (
	CategoryPhotoautotroph TrophicCategory = "PHOTOAUTOTROPH"
	CategoryChemoautotroph TrophicCategory = "CHEMOAUTOTROPH"
	CategoryHerbivore      TrophicCategory = "HERBIVORE"
	CategoryCarnivore      TrophicCategory = "CARNIVORE"
	CategoryOmnivore       TrophicCategory = "OMNIVORE"
	CategorySaprotroph     TrophicCategory = "SAPROTROPH"
	CategoryDetritivore    TrophicCategory = "DETRITIVORE"
	CategoryParasite       TrophicCategory = "PARASITE"
	CategoryMutualist      TrophicCategory = "MUTUALIST"
)

var validCategories = map[TrophicCategory]bool{
	CategoryPhotoautotroph: true,
	CategoryChemoautotroph: true,
	CategoryHerbivore:      true,
	CategoryCarnivore:      true,
	CategoryOmnivore:       true,
	CategorySaprotroph:     true,
	CategoryDetritivore:    true,
	CategoryParasite:       true,
	CategoryMutualist:      true,
}

// IsProducer reports whether the category sits at the base of the trophic chain.
func (c TrophicCategory) IsProducer() bool {
	return c == CategoryPhotoautotroph || c == CategoryChemoautotroph
}

// IsAttacher reports whether cards of this category attach to hosts instead
// of occupying a grid cell.
func (c TrophicCategory) IsAttacher() bool {
	return c == CategoryParasite || c == CategoryMutualist
}

// Domain is a card's habitat compatibility tag.
type Domain string

const (
	DomainTerrestrial          Domain = "TERRESTRIAL"
	DomainFreshwater           Domain = "FRESHWATER"
	DomainMarine               Domain = "MARINE"
	DomainAmphibiousFreshwater Domain = "AMPHIBIOUS_FRESHWATER"
	DomainAmphibiousMarine     Domain = "AMPHIBIOUS_MARINE"
	DomainEuryhaline           Domain = "EURYHALINE"
	DomainHome                 Domain = "HOME"
)

var validDomains = map[Domain]bool{
	DomainTerrestrial:          true,
	DomainFreshwater:           true,
	DomainMarine:               true,
	DomainAmphibiousFreshwater: true,
	DomainAmphibiousMarine:     true,
	DomainEuryhaline:           true,
	DomainHome:                 true,
}

// IsAmphibious reports whether the domain bridges land and one water type.
func (d Domain) IsAmphibious() bool {
	return d == DomainAmphibiousFreshwater || d == DomainAmphibiousMarine
}

// TriggerKind indicates when an ability fires.
type TriggerKind string

const (
	TriggerOnPlay      TriggerKind = "ON_PLAY"
	TriggerActivated   TriggerKind = "ACTIVATED"
	TriggerPassive     TriggerKind = "PASSIVE"
	TriggerOnDeath     TriggerKind = "ON_DEATH"
	TriggerOnTurnStart TriggerKind = "ON_TURN_START"
	TriggerOnTurnEnd   TriggerKind = "ON_TURN_END"
)

var validTriggers = map[TriggerKind]bool{
	TriggerOnPlay:      true,
	TriggerActivated:   true,
	TriggerPassive:     true,
	TriggerOnDeath:     true,
	TriggerOnTurnStart: true,
	TriggerOnTurnEnd:   true,
}

// EffectKind is the closed vocabulary of effect operations.
type EffectKind string

const (
	EffectTarget           EffectKind = "TARGET"
	EffectTakeCardFromZone EffectKind = "TAKE_CARD_FROM_ZONE"
	EffectApplyStatus      EffectKind = "APPLY_STATUS"
	EffectMoveCard         EffectKind = "MOVE_CARD"
	EffectExhaustTarget    EffectKind = "EXHAUST_TARGET"
	EffectReadyTarget      EffectKind = "READY_TARGET"
	EffectDestroyTarget    EffectKind = "DESTROY_TARGET"
	EffectGainEnergy       EffectKind = "GAIN_ENERGY"
	EffectLoseEnergy       EffectKind = "LOSE_ENERGY"
	EffectDrawCard         EffectKind = "DRAW_CARD"
	EffectMoveToHand       EffectKind = "MOVE_TO_HAND"
	EffectPreventReady     EffectKind = "PREVENT_READY"
	EffectGainVP           EffectKind = "GAIN_VP"
	EffectDiscardCard      EffectKind = "DISCARD_CARD"
)

var validEffects = map[EffectKind]bool{
	EffectTarget:           true,
	EffectTakeCardFromZone: true,
	EffectApplyStatus:      true,
	EffectMoveCard:         true,
	EffectExhaustTarget:    true,
	EffectReadyTarget:      true,
	EffectDestroyTarget:    true,
	EffectGainEnergy:       true,
	EffectLoseEnergy:       true,
	EffectDrawCard:         true,
	EffectMoveToHand:       true,
	EffectPreventReady:     true,
	EffectGainVP:           true,
	EffectDiscardCard:      true,
}

// SelectorKind is the closed vocabulary of target selectors.
type SelectorKind string

const (
	SelectorNone                       SelectorKind = ""
	SelectorAdjacent                   SelectorKind = "ADJACENT"
	SelectorAdjacentToSharedAmphibious SelectorKind = "ADJACENT_TO_SHARED_AMPHIBIOUS"
	SelectorCardInDetritusZone         SelectorKind = "CARD_IN_DETRITUS_ZONE"
	SelectorSelfHost                   SelectorKind = "SELF_HOST"
	SelectorAllCards                   SelectorKind = "ALL_CARDS"
	SelectorRandomCard                 SelectorKind = "RANDOM_CARD"
)

var validSelectors = map[SelectorKind]bool{
	SelectorNone:                       true,
	SelectorAdjacent:                   true,
	SelectorAdjacentToSharedAmphibious: true,
	SelectorCardInDetritusZone:         true,
	SelectorSelfHost:                   true,
	SelectorAllCards:                   true,
	SelectorRandomCard:                 true,
}

// StatusKind names a status effect a card can carry.
type StatusKind string

const (
	StatusParasiteDrain   StatusKind = "PARASITE_DRAIN"
	StatusMutualistBoost  StatusKind = "MUTUALIST_BOOST"
	StatusPreventReady    StatusKind = "PREVENT_READY"
	StatusGeneric         StatusKind = "GENERIC"
)

// CostRequirement is one entry of a card's cost expression: exhaust Count
// ready owned cards matching Category at Level.
type CostRequirement struct {
	Category TrophicCategory `yaml:"category"`
	Level    int             `yaml:"level"`
	Count    int             `yaml:"count"`
}

func (r CostRequirement) String() string {
	return fmt.Sprintf("%dx %s L%d", r.Count, r.Category, r.Level)
}

// TargetFilter narrows a selector's candidate set. Zero-valued fields do
// not constrain.
type TargetFilter struct {
	Keyword  string          `yaml:"keyword,omitempty"`
	Category TrophicCategory `yaml:"category,omitempty"`
	Level    *int            `yaml:"level,omitempty"`
}

// EffectStep is one instruction of an ability's effect program. A TARGET
// step carries a selector plus a Sub step applied to each selected card.
type EffectStep struct {
	Kind     EffectKind    `yaml:"kind"`
	Selector SelectorKind  `yaml:"selector,omitempty"`
	Filter   *TargetFilter `yaml:"filter,omitempty"`
	Value    int           `yaml:"value,omitempty"`
	Status   StatusKind    `yaml:"status,omitempty"`
	Sub      *EffectStep   `yaml:"sub,omitempty"`
}

// AbilityDefinition is an immutable ability program from the catalog.
type AbilityDefinition struct {
	ID         int          `yaml:"id"`
	Name       string       `yaml:"name"`
	Trigger    TriggerKind  `yaml:"trigger"`
	EnergyCost int          `yaml:"energy_cost,omitempty"`
	Steps      []EffectStep `yaml:"steps"`
}

// RequiresTarget reports whether any step of the ability declares a
// targeting selector. Manual activations must supply a target exactly when
// this is true.
func (a *AbilityDefinition) RequiresTarget() bool {
	for i := range a.Steps {
		if stepDeclaresSelector(&a.Steps[i]) {
			return true
		}
	}
	return false
}

func stepDeclaresSelector(step *EffectStep) bool {
	if step.Selector != SelectorNone {
		return true
	}
	if step.Sub != nil {
		return stepDeclaresSelector(step.Sub)
	}
	return false
}

// CardDefinition is an immutable card from the catalog.
// TrophicLevel is nil for cards outside the chain (parasites, mutualists).
type CardDefinition struct {
	ID                int               `yaml:"id"`
	Name              string            `yaml:"name"`
	TrophicLevel      *int              `yaml:"trophic_level,omitempty"`
	Category          TrophicCategory   `yaml:"category"`
	Domain            Domain            `yaml:"domain"`
	Cost              []CostRequirement `yaml:"cost,omitempty"`
	Keywords          []string          `yaml:"keywords,omitempty"`
	AbilityIDs        []int             `yaml:"ability_ids,omitempty"`
	VictoryPoints     int               `yaml:"victory_points,omitempty"`
	MetamorphosesFrom int               `yaml:"metamorphoses_from,omitempty"`
}

// Level returns the trophic level, or 0 when the card has none.
func (d *CardDefinition) Level() int {
	if d.TrophicLevel == nil {
		return 0
	}
	return *d.TrophicLevel
}

// HasKeyword reports whether the definition carries the given keyword.
func (d *CardDefinition) HasKeyword(kw string) bool {
	for _, k := range d.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// ScoreValue returns the card's victory-point value, defaulting to 1 when
// the definition does not specify one.
func (d *CardDefinition) ScoreValue() int {
	if d.VictoryPoints <= 0 {
		return 1
	}
	return d.VictoryPoints
}
