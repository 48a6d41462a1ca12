package applications

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"findmydreamjobs/internal/backend"
)

// Status buckets. Any status outside the predefined set lands in Others.
const (
	StatusApplied            = "Applied"
	StatusInProgress         = "In Progress"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusOffered            = "Offered"
	StatusRejected           = "Rejected"
	StatusOthers             = "Others"
)

// Predefined is the fixed status set in display order.
var Predefined = []string{StatusApplied, StatusInProgress, StatusInterviewScheduled, StatusOffered, StatusRejected}

// Buckets is Predefined plus Others.
var Buckets = append(append([]string{}, Predefined...), StatusOthers)

var bucketByFolded = func() map[string]string {
	m := make(map[string]string, len(Buckets))
	for _, b := range Buckets {
		m[fold(b)] = b
	}
	return m
}()

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Bucket maps a free-text status onto the taxonomy.
func Bucket(status string) string {
	if b, ok := bucketByFolded[fold(status)]; ok && b != StatusOthers {
		return b
	}
	return StatusOthers
}

// ParseSelection normalizes the requested bucket names. Unknown names are
// rejected.
func ParseSelection(raw []string) (map[string]bool, error) {
	out := make(map[string]bool, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			b, ok := bucketByFolded[fold(part)]
			if !ok {
				return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, strings.TrimSpace(part))
			}
			out[b] = true
		}
	}
	return out, nil
}

// Filter keeps the applications whose bucket is selected. An empty
// selection keeps everything.
func Filter(apps []backend.Application, selected map[string]bool) []backend.Application {
	out := make([]backend.Application, 0, len(apps))
	for _, a := range apps {
		if len(selected) == 0 || selected[Bucket(a.ApplicationStatus)] {
			out = append(out, a)
		}
	}
	return out
}

// SortKey names a sortable column.
type SortKey string

const (
	SortAppliedDate SortKey = "applied_date"
	SortMatchScore  SortKey = "match_score"
	SortATSScore    SortKey = "ats_score"
	SortJobTitle    SortKey = "job_title"
	SortCompanyName SortKey = "company_name"
)

const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// ParseSort validates the sort options. Empty values take the defaults
// applied_date/desc.
func ParseSort(key, dir string) (SortKey, string, error) {
	k := SortKey(strings.TrimSpace(key))
	if k == "" {
		k = SortAppliedDate
	}
	switch k {
	case SortAppliedDate, SortMatchScore, SortATSScore, SortJobTitle, SortCompanyName:
	default:
		return "", "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, key)
	}
	d := strings.ToLower(strings.TrimSpace(dir))
	if d == "" {
		d = DirDesc
	}
	if d != DirAsc && d != DirDesc {
		return "", "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidInput, dir)
	}
	return k, d, nil
}

// Sort orders apps in place. Missing values go last in either direction;
// equal values fall back to application_id ascending and then input order.
func Sort(apps []backend.Application, key SortKey, dir string) {
	desc := dir == DirDesc
	sort.SliceStable(apps, func(i, j int) bool {
		c, decided := compare(apps[i], apps[j], key)
		if decided && desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return apps[i].ApplicationID < apps[j].ApplicationID
	})
}

// compare returns the ordering of a and b by key. decided is false when at
// least one value is missing; c then places the missing value last.
func compare(a, b backend.Application, key SortKey) (c int, decided bool) {
	switch key {
	case SortMatchScore:
		return compareScores(a.MatchScore, b.MatchScore)
	case SortATSScore:
		return compareScores(a.ATSScore, b.ATSScore)
	case SortJobTitle:
		return compareStrings(a.JobTitle, b.JobTitle)
	case SortCompanyName:
		return compareStrings(a.CompanyName, b.CompanyName)
	default:
		return compareTimes(ParseDate(a.AppliedDate), ParseDate(b.AppliedDate))
	}
}

func missingOrder(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, false
	case aMissing:
		return 1, false
	default:
		return -1, false
	}
}

func compareScores(a, b *float64) (int, bool) {
	if a == nil || b == nil {
		return missingOrder(a == nil, b == nil)
	}
	switch {
	case *a < *b:
		return -1, true
	case *a > *b:
		return 1, true
	}
	return 0, true
}

func compareStrings(a, b string) (int, bool) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return missingOrder(a == "", b == "")
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b)), true
}

func compareTimes(a, b time.Time) (int, bool) {
	if a.IsZero() || b.IsZero() {
		return missingOrder(a.IsZero(), b.IsZero())
	}
	return a.Compare(b), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate reads the backend's applied_date. Unparseable dates are zero.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
