package domain

import (
	"sort"
	"strconv"
	"strings"
)

type BedType string

const (
	BedBasic BedType = "basic"
	BedExtra BedType = "extra"
)

// BedOccupant assigns one person category to one bed slot.
type BedOccupant struct {
	BedType        BedType      `json:"bedType"`
	BedIndex       int          `json:"bedIndex"`
	PersonCategory CategoryCode `json:"personCategory"`
}

// OccupancyVariant is one valid way of filling a room's beds, ordered by slot.
type OccupancyVariant []BedOccupant

// Key is the slot-aware identity of a variant: which category sits in which
// slot. For variants produced without permutations the occupants are already
// packed in canonical order, so Key doubles as the canonical variant key used
// to match old and regenerated rules.
func (v OccupancyVariant) Key() string {
	parts := make([]string, len(v))
	for i, o := range v {
		parts[i] = string(o.BedType) + "[" + strconv.Itoa(o.BedIndex) + "]=" + string(o.PersonCategory)
	}
	return strings.Join(parts, "|")
}

// CanonicalKey is the order-independent multiset of category codes.
func (v OccupancyVariant) CanonicalKey() string {
	codes := make([]string, len(v))
	for i, o := range v {
		codes[i] = string(o.PersonCategory)
	}
	sort.Strings(codes)
	return strings.Join(codes, "+")
}

// Codes returns the occupant category codes in slot order.
func (v OccupancyVariant) Codes() []CategoryCode {
	out := make([]CategoryCode, len(v))
	for i, o := range v {
		out[i] = o.PersonCategory
	}
	return out
}

// RoomType is the descriptor supplied by room management. Bed capacities are
// slots per bed (a double basic bed has capacity 2); zero means 1.
type RoomType struct {
	RoomTypeID       string `json:"roomTypeId"`
	RoomTypeName     string `json:"roomTypeName"`
	MinOccupancy     int    `json:"minOccupancy"`
	MaxOccupancy     int    `json:"maxOccupancy"`
	MaxAdults        int    `json:"maxAdults"`
	MaxChildren      int    `json:"maxChildren"`
	BasicBeds        int    `json:"basicBeds"`
	ExtraBeds        int    `json:"extraBeds"`
	BasicBedCapacity int    `json:"basicBedCapacity,omitempty"`
	ExtraBedCapacity int    `json:"extraBedCapacity,omitempty"`
}

type bedSlot struct {
	bedType BedType
	index   int
}

// slots lists bed positions in fill order: basic slots first, then extra.
func (rt RoomType) slots() []bedSlot {
	capOr1 := func(c int) int {
		if c < 1 {
			return 1
		}
		return c
	}
	var out []bedSlot
	n := rt.BasicBeds * capOr1(rt.BasicBedCapacity)
	for i := 0; i < n; i++ {
		out = append(out, bedSlot{bedType: BedBasic, index: i})
	}
	n = rt.ExtraBeds * capOr1(rt.ExtraBedCapacity)
	for i := 0; i < n; i++ {
		out = append(out, bedSlot{bedType: BedExtra, index: i})
	}
	return out
}

// EnumerateVariants produces every distinct valid occupancy variant for the
// room type. Occupants are packed into slots in order (basic first, then
// extra); slots past the occupant count stay vacant, which is legal once
// minOccupancy is satisfied.
//
// With includePermutations=false, variants differing only in which slot holds
// which member of the same category multiset collapse to one canonical
// representative (occupants sorted by category code). With true, every
// distinct slot-to-category mapping is kept; output grows combinatorially and
// capping room complexity is the caller's concern.
//
// Output order is stable: ascending total occupancy, then lexicographic by
// the slot-order category code sequence. Infants are not enumerated: they do
// not occupy a bed slot and are priced outside occupancy.
func EnumerateVariants(rt RoomType, cats []PersonCategory, includePermutations bool) ([]OccupancyVariant, error) {
	if rt.MinOccupancy > rt.MaxOccupancy {
		return nil, &ConfigurationError{RoomTypeID: rt.RoomTypeID,
			Reason: "minOccupancy exceeds maxOccupancy"}
	}
	if rt.MaxAdults < 1 {
		return nil, &ConfigurationError{RoomTypeID: rt.RoomTypeID,
			Reason: "maxAdults must be at least 1; every variant needs an accompanying adult"}
	}

	// Categories that can occupy a slot, in lexicographic code order so the
	// generation itself is deterministic.
	occ := make([]PersonCategory, 0, len(cats))
	hasAdult := false
	for _, c := range cats {
		if !c.CountsTowardOccupancy() {
			continue
		}
		if c.Code == CodeAdult {
			hasAdult = true
		}
		occ = append(occ, c)
	}
	if !hasAdult {
		return nil, &ConfigurationError{RoomTypeID: rt.RoomTypeID,
			Reason: "category registry has no adult band"}
	}
	sort.Slice(occ, func(i, j int) bool { return occ[i].Code < occ[j].Code })

	slots := rt.slots()
	maxOcc := rt.MaxOccupancy
	if maxOcc > len(slots) {
		maxOcc = len(slots)
	}
	minOcc := rt.MinOccupancy
	if minOcc < 1 {
		minOcc = 1
	}
	if minOcc > maxOcc {
		return nil, &ConfigurationError{RoomTypeID: rt.RoomTypeID,
			Reason: "bed inventory cannot satisfy minOccupancy"}
	}

	var (
		variants []OccupancyVariant
		seen     = map[string]bool{}
		assigned = make([]PersonCategory, 0, maxOcc)
	)

	emit := func() {
		v := make(OccupancyVariant, len(assigned))
		members := assigned
		if !includePermutations {
			// Canonical representative: occupants sorted by category code,
			// then packed into slots in order.
			members = append([]PersonCategory(nil), assigned...)
			sort.Slice(members, func(i, j int) bool { return members[i].Code < members[j].Code })
		}
		for i, m := range members {
			v[i] = BedOccupant{BedType: slots[i].bedType, BedIndex: slots[i].index, PersonCategory: m.Code}
		}
		if k := v.Key(); !seen[k] {
			seen[k] = true
			variants = append(variants, v)
		}
	}

	// Generate-then-filter, depth first with count pruning so the Cartesian
	// product is never materialized beyond the current branch.
	var fill func(pos, adults, children int)
	fill = func(pos, adults, children int) {
		if pos >= minOcc && adults >= 1 {
			emit()
		}
		if pos == maxOcc {
			return
		}
		for _, c := range occ {
			na, nc := adults, children
			if c.Code == CodeAdult {
				na++
			} else if c.IsChild() {
				nc++
			}
			if na > rt.MaxAdults || nc > rt.MaxChildren {
				continue
			}
			// Prune branches that can never reach an adult in time.
			if na == 0 && pos+1 == maxOcc {
				continue
			}
			assigned = append(assigned, c)
			fill(pos+1, na, nc)
			assigned = assigned[:len(assigned)-1]
		}
	}
	fill(0, 0, 0)

	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a.Key() < b.Key()
	})
	return variants, nil
}
