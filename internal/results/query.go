package results

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fmuoria/interview-coach/internal/models"
)

// Filter narrows a record list by type or score band
type Filter string

// Filters offered by the results library
const (
	FilterAll        Filter = "All"
	FilterResumes    Filter = "Resumes"
	FilterInterviews Filter = "Interviews"
	Filter90Plus     Filter = "90%+"
	Filter80To89     Filter = "80-89%"
	Filter70To79     Filter = "70-79%"
	FilterBelow70    Filter = "Below 70%"
)

// SortOrder orders a record list
type SortOrder string

// Sort orders offered by the results library
const (
	SortNewest    SortOrder = "Date (Newest)"
	SortOldest    SortOrder = "Date (Oldest)"
	SortScoreDesc SortOrder = "Score (High to Low)"
	SortScoreAsc  SortOrder = "Score (Low to High)"
)

// Filters lists every filter in display order
var Filters = []Filter{FilterAll, FilterResumes, FilterInterviews, Filter90Plus, Filter80To89, Filter70To79, FilterBelow70}

// SortOrders lists every sort order in display order
var SortOrders = []SortOrder{SortNewest, SortOldest, SortScoreDesc, SortScoreAsc}

// Query selects and orders records
type Query struct {
	Filter Filter
	Search string
	Sort   SortOrder
}

// ParseFilter accepts a filter by name; empty means All
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// ParseSortOrder accepts a sort order by name; empty means newest first
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, o := range SortOrders {
		if strings.EqualFold(string(o), s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Apply filters, searches and sorts records, returning a new slice
func Apply(records []models.InterviewRecord, q Query) []models.InterviewRecord {
	out := make([]models.InterviewRecord, 0, len(records))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, rec := range records {
		if !matchesFilter(rec, q.Filter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, rec)
	}

	switch q.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortScoreDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	case SortScoreAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

func matchesFilter(rec models.InterviewRecord, f Filter) bool {
	switch f {
	case FilterResumes:
		return rec.Type == models.RecordTypeResume
	case FilterInterviews:
		return rec.Type == models.RecordTypeInterview
	case Filter90Plus:
		return rec.Score >= 90
	case Filter80To89:
		return rec.Score >= 80 && rec.Score < 90
	case Filter70To79:
		return rec.Score >= 70 && rec.Score < 80
	case FilterBelow70:
		return rec.Score < 70
	default:
		return true
	}
}

// Band is a display colour bucket for a score
type Band struct {
	Name  string
	Color string // hex RGB without '#'
}

// Score bands used by every presentation layer
var (
	BandExcellent = Band{Name: "excellent", Color: "87CEEB"}
	BandGood      = Band{Name: "good", Color: "90EE90"}
	BandFair      = Band{Name: "fair", Color: "FFE66D"}
	BandPoor      = Band{Name: "poor", Color: "FF6B6B"}
)

// ScoreBand returns the colour bucket for a score
func ScoreBand(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}
