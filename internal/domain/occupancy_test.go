package domain_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

func adlChd1() []domain.PersonCategory {
	return []domain.PersonCategory{
		{Code: domain.CodeAdult, Label: "Adult", AgeFrom: 18, AgeTo: 100},
		{Code: domain.CodeChild1, Label: "Child 2-7", AgeFrom: 2, AgeTo: 7},
	}
}

// Double basic bed (two slots) plus one extra bed, 1..3 guests, at most two
// adults and one child.
func doubleWithExtra() domain.RoomType {
	return domain.RoomType{
		RoomTypeID:       "rt-double",
		RoomTypeName:     "Double + extra",
		MinOccupancy:     1,
		MaxOccupancy:     3,
		MaxAdults:        2,
		MaxChildren:      1,
		BasicBeds:        1,
		BasicBedCapacity: 2,
		ExtraBeds:        1,
	}
}

func TestEnumerateVariants_DoubleWithExtraBed(t *testing.T) {
	got, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), false)
	require.NoError(t, err)

	keys := make([]string, len(got))
	for i, v := range got {
		keys[i] = v.CanonicalKey()
	}
	assert.Equal(t, []string{"ADL", "ADL+ADL", "ADL+CHD1", "ADL+ADL+CHD1"}, keys)
}

func TestEnumerateVariants_Deterministic(t *testing.T) {
	a, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), false)
	require.NoError(t, err)
	b, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), false)
	require.NoError(t, err)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different output:\n%v\n%v", a, b)
	}
}

func TestEnumerateVariants_MinAboveMax(t *testing.T) {
	rt := doubleWithExtra()
	rt.MinOccupancy, rt.MaxOccupancy = 3, 1

	got, err := domain.EnumerateVariants(rt, adlChd1(), false)
	assert.Empty(t, got)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
	assert.Equal(t, "rt-double", ce.RoomTypeID)
}

func TestEnumerateVariants_ZeroAdultsAllowed(t *testing.T) {
	rt := doubleWithExtra()
	rt.MaxAdults = 0

	got, err := domain.EnumerateVariants(rt, adlChd1(), false)
	assert.Empty(t, got)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
}

func TestEnumerateVariants_RegistryWithoutAdultBand(t *testing.T) {
	cats := []domain.PersonCategory{
		{Code: domain.CodeChild1, Label: "Child 2-7", AgeFrom: 2, AgeTo: 7},
	}
	_, err := domain.EnumerateVariants(doubleWithExtra(), cats, false)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
}

func TestEnumerateVariants_BedInventoryTooSmall(t *testing.T) {
	rt := domain.RoomType{
		RoomTypeID:   "rt-tiny",
		MinOccupancy: 3,
		MaxOccupancy: 4,
		MaxAdults:    4,
		MaxChildren:  2,
		BasicBeds:    1,
	}
	_, err := domain.EnumerateVariants(rt, adlChd1(), false)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
}

func TestEnumerateVariants_PermutationsContainCanonical(t *testing.T) {
	canon, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), false)
	require.NoError(t, err)
	perms, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), true)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(canon), len(perms))

	// Every canonical multiset must appear among the permutations.
	permKeys := map[string]bool{}
	for _, v := range perms {
		permKeys[v.CanonicalKey()] = true
	}
	for _, v := range canon {
		assert.True(t, permKeys[v.CanonicalKey()], "multiset %s missing from permutations", v.CanonicalKey())
	}
}

func TestEnumerateVariants_PermutationsDistinguishSlots(t *testing.T) {
	perms, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), true)
	require.NoError(t, err)

	// [ADL,CHD1] and [CHD1,ADL] across the two basic slots are distinct
	// mappings when permutations are kept.
	seen := map[string]int{}
	for _, v := range perms {
		seen[v.CanonicalKey()]++
	}
	assert.Greater(t, seen["ADL+CHD1"], 1, "expected slot permutations of ADL+CHD1")
}

func TestEnumerateVariants_OrderedByOccupancy(t *testing.T) {
	got, err := domain.EnumerateVariants(doubleWithExtra(), adlChd1(), true)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, len(got[i-1]), len(got[i]))
	}
}

func TestEnumerateVariants_InfantsDoNotOccupyBeds(t *testing.T) {
	got, err := domain.EnumerateVariants(doubleWithExtra(), domain.DefaultCategories(), false)
	require.NoError(t, err)
	for _, v := range got {
		for _, o := range v {
			assert.NotEqual(t, domain.CodeInfant, o.PersonCategory)
		}
	}
}

func TestEnumerateVariants_AtLeastOneVariantForSaneConfig(t *testing.T) {
	// Any config with minOccupancy <= maxOccupancy and maxAdults >= 1 must
	// yield at least one variant.
	for _, rt := range []domain.RoomType{
		{RoomTypeID: "a", MinOccupancy: 1, MaxOccupancy: 1, MaxAdults: 1, BasicBeds: 1},
		{RoomTypeID: "b", MinOccupancy: 2, MaxOccupancy: 4, MaxAdults: 2, MaxChildren: 2, BasicBeds: 2, ExtraBeds: 2},
		{RoomTypeID: "c", MinOccupancy: 1, MaxOccupancy: 2, MaxAdults: 2, BasicBeds: 1, BasicBedCapacity: 2},
	} {
		got, err := domain.EnumerateVariants(rt, domain.DefaultCategories(), false)
		require.NoError(t, err, "room type %s", rt.RoomTypeID)
		assert.NotEmpty(t, got, "room type %s", rt.RoomTypeID)
	}
}

func TestVariantKeys(t *testing.T) {
	v := domain.OccupancyVariant{
		{BedType: domain.BedBasic, BedIndex: 0, PersonCategory: domain.CodeChild1},
		{BedType: domain.BedBasic, BedIndex: 1, PersonCategory: domain.CodeAdult},
	}
	assert.Equal(t, "basic[0]=CHD1|basic[1]=ADL", v.Key())
	// CanonicalKey is order independent.
	assert.Equal(t, "ADL+CHD1", v.CanonicalKey())
}
