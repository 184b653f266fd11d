package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/pastquestions/internal/app/models"
)

// FilterAll disables the year or semester filter
const FilterAll = "all"

// NewWindow is how long an upload is flagged as new
const NewWindow = 7 * 24 * time.Hour

// FilterQuestions keeps the records matching every active filter, in input
// order. search matches CourseCode or Title case-insensitively; year and
// semester are exact matches unless empty or "all".
func FilterQuestions(records []models.PastQuestion, search, year, semester string) []models.PastQuestion {
	needle := strings.ToLower(strings.TrimSpace(search))
	filterYear := year != "" && year != FilterAll
	filterSemester := semester != "" && semester != FilterAll

	out := make([]models.PastQuestion, 0, len(records))
	for _, q := range records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(q.CourseCode), needle) &&
			!strings.Contains(strings.ToLower(q.Title), needle) {
			continue
		}
		if filterYear && strconv.Itoa(q.Year) != year {
			continue
		}
		if filterSemester && string(q.Semester) != semester {
			continue
		}
		out = append(out, q)
	}
	return out
}

// IsNew reports whether a record created at createdAt is less than NewWindow old
func IsNew(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < NewWindow
}

// YearFacets returns the distinct years of records, newest first
func YearFacets(records []models.PastQuestion) []int {
	seen := make(map[int]struct{}, len(records))
	years := make([]int, 0)
	for _, q := range records {
		if _, ok := seen[q.Year]; ok {
			continue
		}
		seen[q.Year] = struct{}{}
		years = append(years, q.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
