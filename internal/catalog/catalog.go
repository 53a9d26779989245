package catalog

import (
	"fmt"
	"sort"
)

// HomeDefinitionID is the reserved definition id used by per-player HOME
// anchors. It never appears in catalog data.
const HomeDefinitionID = 0

// Catalog is a validated, read-only lookup of card and ability definitions.
// All ids are resolved at construction; lookups after that cannot surface
// dangling references.
type Catalog struct {
	cards     map[int]*CardDefinition
	abilities map[int]*AbilityDefinition
}

// New validates the given definitions and builds a catalog. Unknown enum
// values, duplicate ids, and dangling references are rejected here rather
// than at lookup time.
func New(cards []CardDefinition, abilities []AbilityDefinition) (*Catalog, error) {
	c := &Catalog{
		cards:     make(map[int]*CardDefinition, len(cards)),
		abilities: make(map[int]*AbilityDefinition, len(abilities)),
	}

	for i := range abilities {
		a := abilities[i]
		if a.ID <= 0 {
			return nil, fmt.Errorf("ability %q: id must be positive, got %d", a.Name, a.ID)
		}
		if _, dup := c.abilities[a.ID]; dup {
			return nil, fmt.Errorf("duplicate ability id %d", a.ID)
		}
		if !validTriggers[a.Trigger] {
			return nil, fmt.Errorf("ability %d: unknown trigger kind %q", a.ID, a.Trigger)
		}
		if a.EnergyCost < 0 {
			return nil, fmt.Errorf("ability %d: negative energy cost", a.ID)
		}
		if len(a.Steps) == 0 {
			return nil, fmt.Errorf("ability %d: no effect steps", a.ID)
		}
		for j := range a.Steps {
			if err := validateStep(&a.Steps[j]); err != nil {
				return nil, fmt.Errorf("ability %d step %d: %w", a.ID, j, err)
			}
		}
		c.abilities[a.ID] = &a
	}

	for i := range cards {
		d := cards[i]
		if d.ID <= HomeDefinitionID {
			return nil, fmt.Errorf("card %q: id must be positive, got %d", d.Name, d.ID)
		}
		if _, dup := c.cards[d.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d", d.ID)
		}
		if !validCategories[d.Category] {
			return nil, fmt.Errorf("card %d: unknown trophic category %q", d.ID, d.Category)
		}
		if !validDomains[d.Domain] {
			return nil, fmt.Errorf("card %d: unknown domain %q", d.ID, d.Domain)
		}
		if d.Domain == DomainHome {
			return nil, fmt.Errorf("card %d: HOME domain is reserved for anchor cells", d.ID)
		}
		if d.TrophicLevel != nil && *d.TrophicLevel < 1 {
			return nil, fmt.Errorf("card %d: trophic level must be >= 1", d.ID)
		}
		if d.Category.IsAttacher() && d.TrophicLevel != nil {
			return nil, fmt.Errorf("card %d: %s cards carry no trophic level", d.ID, d.Category)
		}
		for _, req := range d.Cost {
			if req.Count <= 0 {
				return nil, fmt.Errorf("card %d: cost requirement with count %d", d.ID, req.Count)
			}
			if !validCategories[req.Category] {
				return nil, fmt.Errorf("card %d: cost names unknown category %q", d.ID, req.Category)
			}
		}
		for _, abilityID := range d.AbilityIDs {
			if _, ok := c.abilities[abilityID]; !ok {
				return nil, fmt.Errorf("card %d: unknown ability id %d", d.ID, abilityID)
			}
		}
		c.cards[d.ID] = &d
	}

	// Metamorphosis links can only be checked once every card is registered.
	for _, d := range c.cards {
		if d.MetamorphosesFrom == 0 {
			continue
		}
		if _, ok := c.cards[d.MetamorphosesFrom]; !ok {
			return nil, fmt.Errorf("card %d: metamorphoses_from references unknown card %d", d.ID, d.MetamorphosesFrom)
		}
	}

	return c, nil
}

func validateStep(step *EffectStep) error {
	if !validEffects[step.Kind] {
		return fmt.Errorf("unknown effect kind %q", step.Kind)
	}
	if !validSelectors[step.Selector] {
		return fmt.Errorf("unknown selector kind %q", step.Selector)
	}
	if step.Kind == EffectTarget {
		if step.Selector == SelectorNone {
			return fmt.Errorf("TARGET step requires a selector")
		}
		if step.Sub == nil {
			return fmt.Errorf("TARGET step requires a sub-step")
		}
		if step.Sub.Kind == EffectTarget {
			return fmt.Errorf("TARGET steps do not nest")
		}
		return validateStep(step.Sub)
	}
	if step.Filter != nil {
		if step.Filter.Category != "" && !validCategories[step.Filter.Category] {
			return fmt.Errorf("filter names unknown category %q", step.Filter.Category)
		}
	}
	return nil
}

// Card returns the definition for id, or false if the catalog has no such card.
func (c *Catalog) Card(id int) (*CardDefinition, bool) {
	d, ok := c.cards[id]
	return d, ok
}

// Ability returns the ability definition for id.
func (c *Catalog) Ability(id int) (*AbilityDefinition, bool) {
	a, ok := c.abilities[id]
	return a, ok
}

// CardIDs returns every card id in ascending order.
func (c *Catalog) CardIDs() []int {
	ids := make([]int, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Size returns the number of card definitions.
func (c *Catalog) Size() int {
	return len(c.cards)
}
