package rules

import "github.com/kelseyabreu/biomasters-engine-go/internal/catalog"

// habitat is a base habitat a domain can live in. Compatibility between two
// domains is a non-empty intersection of their habitat sets, with HOME
// compatible with everything.
type habitat int

const (
	habitatLand habitat = iota
	habitatFreshwater
	habitatMarine
)

var domainHabitats = map[catalog.Domain][]habitat{
	catalog.DomainTerrestrial:          {habitatLand},
	catalog.DomainFreshwater:           {habitatFreshwater},
	catalog.DomainMarine:               {habitatMarine},
	catalog.DomainAmphibiousFreshwater: {habitatLand, habitatFreshwater},
	catalog.DomainAmphibiousMarine:     {habitatLand, habitatMarine},
	catalog.DomainEuryhaline:           {habitatFreshwater, habitatMarine},
}

// DomainsCompatible reports whether two habitat domains may form a trophic
// or attachment connection.
func DomainsCompatible(a, b catalog.Domain) bool {
	if a == catalog.DomainHome || b == catalog.DomainHome {
		return true
	}
	for _, ha := range domainHabitats[a] {
		for _, hb := range domainHabitats[b] {
			if ha == hb {
				return true
			}
		}
	}
	return false
}
