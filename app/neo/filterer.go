package neo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lysyi3m/neo-comb/app/validate"
)

type SortBy string

const (
	SortNone             SortBy = ""
	SortApproachDateAsc  SortBy = "approach_date_asc"
	SortApproachDateDesc SortBy = "approach_date_desc"
	SortDiameterAsc      SortBy = "diameter_asc"
	SortDiameterDesc     SortBy = "diameter_desc"
	SortDistanceAsc      SortBy = "distance_asc"
	SortDistanceDesc     SortBy = "distance_desc"
)

var validSorts = map[SortBy]bool{
	SortNone:             true,
	SortApproachDateAsc:  true,
	SortApproachDateDesc: true,
	SortDiameterAsc:      true,
	SortDiameterDesc:     true,
	SortDistanceAsc:      true,
	SortDistanceDesc:     true,
}

func ParseSortBy(s string) (SortBy, error) {
	sortBy := SortBy(s)
	if !validSorts[sortBy] {
		return SortNone, fmt.Errorf("unknown sort order: %s", s)
	}
	return sortBy, nil
}

// FilterSpec is replaced wholesale on every edit; the zero value shows
// everything in feed order.
type FilterSpec struct {
	HazardousOnly bool   `json:"hazardous_only" yaml:"hazardous_only"`
	SortBy        SortBy `json:"sort_by" yaml:"sort_by" binding:"omitempty,oneof=approach_date_asc approach_date_desc diameter_asc diameter_desc distance_asc distance_desc"`
	StartDate     string `json:"start_date,omitempty" yaml:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"end_date,omitempty" yaml:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

func (FilterSpec) ValidationMessages() validate.Messages {
	return validate.Messages{
		"sort_by":    "Unknown sort order",
		"start_date": "Start date must be in YYYY-MM-DD format",
		"end_date":   "End date must be in YYYY-MM-DD format",
	}
}

// Validate applies the binding rules, for specs that arrive without a
// request body such as presets, then checks the date bounds are ordered.
func (f FilterSpec) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	// DateLayout strings order lexically.
	if f.StartDate != "" && f.EndDate != "" && f.EndDate < f.StartDate {
		return validate.Field("end_date", "End date must not be before start date")
	}
	return nil
}

func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run derives a new ordered view from items. The input slice is never
// modified.
func (f *Filterer) Run(items []Summary, spec FilterSpec) []Summary {
	filtered := make([]Summary, 0, len(items))
	for _, item := range items {
		if spec.HazardousOnly && !item.IsHazardous {
			continue
		}
		if !f.inDateRange(item, spec) {
			continue
		}
		filtered = append(filtered, item)
	}

	if compare := f.comparator(spec.SortBy); compare != nil {
		slices.SortStableFunc(filtered, compare)
	}

	return filtered
}

func (f *Filterer) inDateRange(item Summary, spec FilterSpec) bool {
	if spec.StartDate == "" && spec.EndDate == "" {
		return true
	}

	date := ParseDate(item.ResolvedDate())
	if spec.StartDate != "" && date.Before(ParseDate(spec.StartDate)) {
		return false
	}
	if spec.EndDate != "" && date.After(ParseDate(spec.EndDate)) {
		return false
	}
	return true
}

func (f *Filterer) comparator(sortBy SortBy) func(a, b Summary) int {
	switch sortBy {
	case SortApproachDateAsc:
		return func(a, b Summary) int { return cmp.Compare(approachTime(a), approachTime(b)) }
	case SortApproachDateDesc:
		return func(a, b Summary) int { return cmp.Compare(approachTime(b), approachTime(a)) }
	case SortDiameterAsc:
		return func(a, b Summary) int { return cmp.Compare(a.DiameterKmMax, b.DiameterKmMax) }
	case SortDiameterDesc:
		return func(a, b Summary) int { return cmp.Compare(b.DiameterKmMax, a.DiameterKmMax) }
	case SortDistanceAsc:
		return func(a, b Summary) int { return cmp.Compare(missKm(a), missKm(b)) }
	case SortDistanceDesc:
		return func(a, b Summary) int { return cmp.Compare(missKm(b), missKm(a)) }
	default:
		return nil
	}
}

// approachTime is the first approach date in Unix milliseconds, 0 when absent.
func approachTime(s Summary) int64 {
	a, _ := s.FirstApproach()
	return ParseDate(a.Date).UnixMilli()
}

func missKm(s Summary) float64 {
	a, _ := s.FirstApproach()
	return a.MissDistance.Km
}
