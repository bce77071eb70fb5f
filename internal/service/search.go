package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// Page is one page of search results plus the numbers the list view needs
// for its footer.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int // zero-based
	PageSize int
}

// Pages returns the page count implied by Total and PageSize.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// SearchService runs list queries for the paginated views. Plain browsing is
// straight LIKE paging in SQL; a fuzzy query over-fetches LIKE candidates and
// re-ranks them by edit distance so near-misses ("oscra" for "Oscar") still
// surface.
type SearchService struct {
	Patients *repository.PatientRepo
	Owners   *repository.OwnerRepo
}

// fetch multiplier for fuzzy re-ranking; candidates beyond this never rank
// into a single page anyway
const fuzzyOverfetch = 4

func (s *SearchService) SearchPatients(ctx context.Context, f repository.PatientFilters, page, pageSize int) (Page[repository.Patient], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := s.Patients.Count(ctx, f)
	if err != nil {
		return Page[repository.Patient]{}, err
	}
	page = clampPage(page, total, pageSize)

	if strings.TrimSpace(f.Search) == "" {
		f.Limit = pageSize
		f.Offset = page * pageSize
		items, err := s.Patients.List(ctx, f)
		if err != nil {
			return Page[repository.Patient]{}, err
		}
		return Page[repository.Patient]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
	}

	wide := f
	wide.Limit = pageSize * fuzzyOverfetch
	wide.Offset = 0
	candidates, err := s.Patients.List(ctx, wide)
	if err != nil {
		return Page[repository.Patient]{}, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	sort.SliceStable(candidates, func(i, j int) bool {
		return patientRank(q, candidates[i]) < patientRank(q, candidates[j])
	})
	items := slicePage(candidates, page, pageSize)
	return Page[repository.Patient]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *SearchService) SearchOwners(ctx context.Context, f repository.OwnerFilters, page, pageSize int) (Page[repository.Owner], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := s.Owners.Count(ctx, f)
	if err != nil {
		return Page[repository.Owner]{}, err
	}
	page = clampPage(page, total, pageSize)

	if strings.TrimSpace(f.Search) == "" {
		f.Limit = pageSize
		f.Offset = page * pageSize
		items, err := s.Owners.List(ctx, f)
		if err != nil {
			return Page[repository.Owner]{}, err
		}
		return Page[repository.Owner]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
	}

	wide := f
	wide.Limit = pageSize * fuzzyOverfetch
	wide.Offset = 0
	candidates, err := s.Owners.List(ctx, wide)
	if err != nil {
		return Page[repository.Owner]{}, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	sort.SliceStable(candidates, func(i, j int) bool {
		return ownerRank(q, candidates[i]) < ownerRank(q, candidates[j])
	})
	items := slicePage(candidates, page, pageSize)
	return Page[repository.Owner]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// patientRank scores a patient against the query; lower is better. Name is
// the primary field, medical ID and breed are fallbacks.
func patientRank(q string, p repository.Patient) int {
	best := fieldRank(q, p.Name)
	if r := fieldRank(q, p.MedicalID); r < best {
		best = r
	}
	if p.Breed != nil {
		if r := fieldRank(q, *p.Breed); r < best {
			best = r
		}
	}
	return best
}

func ownerRank(q string, o repository.Owner) int {
	best := fieldRank(q, o.FullName())
	if o.Email != nil {
		if r := fieldRank(q, *o.Email); r < best {
			best = r
		}
	}
	if o.Phone != nil {
		if r := fieldRank(q, *o.Phone); r < best {
			best = r
		}
	}
	return best
}

// fieldRank prefers prefix matches, then substring matches, then raw edit
// distance, keeping the three bands disjoint.
func fieldRank(q, field string) int {
	f := strings.ToLower(field)
	if strings.HasPrefix(f, q) {
		return len(f) - len(q)
	}
	if strings.Contains(f, q) {
		return 1000 + len(f) - len(q)
	}
	return 2000 + levenshtein.ComputeDistance(q, f)
}

func clampPage(page, total, pageSize int) int {
	if page < 0 {
		return 0
	}
	last := 0
	if total > 0 {
		last = (total - 1) / pageSize
	}
	if page > last {
		return last
	}
	return page
}

func slicePage[T any](items []T, page, pageSize int) []T {
	start := page * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
