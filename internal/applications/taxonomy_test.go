package applications

import (
	"errors"
	"testing"

	"findmydreamjobs/internal/backend"
)

func score(v float64) *float64 { return &v }

func sample() []backend.Application {
	return []backend.Application{
		{ApplicationID: 1, ApplicationStatus: "Applied", JobTitle: "backend engineer", CompanyName: "Acme", AppliedDate: "2024-03-01T10:00:00", MatchScore: score(70), ATSScore: score(55)},
		{ApplicationID: 2, ApplicationStatus: " interview   scheduled ", JobTitle: "Analyst", CompanyName: "beta", AppliedDate: "2024-02-01", MatchScore: nil, ATSScore: score(80)},
		{ApplicationID: 3, ApplicationStatus: "Ghosted", JobTitle: "", CompanyName: "Gamma", AppliedDate: "", MatchScore: score(90), ATSScore: nil},
		{ApplicationID: 4, ApplicationStatus: "OFFERED", JobTitle: "Designer", CompanyName: "", AppliedDate: "2024-03-01T10:00:00Z", MatchScore: score(70), ATSScore: score(55)},
		{ApplicationID: 5, ApplicationStatus: "", JobTitle: "Architect", CompanyName: "Acme", AppliedDate: "garbage", MatchScore: score(10), ATSScore: score(99)},
		{ApplicationID: 6, ApplicationStatus: "Rejected", JobTitle: "analyst", CompanyName: "Delta", AppliedDate: "2023-12-24", MatchScore: score(40), ATSScore: score(20)},
	}
}

func TestBucket(t *testing.T) {
	tests := map[string]string{
		"Applied":                StatusApplied,
		"  in   progress":        StatusInProgress,
		"INTERVIEW SCHEDULED":    StatusInterviewScheduled,
		"offered":                StatusOffered,
		"Rejected ":              StatusRejected,
		"":                       StatusOthers,
		"Others":                 StatusOthers,
		"Waiting on recruiter":   StatusOthers,
		"Interview  Scheduled\t": StatusInterviewScheduled,
	}
	for in, want := range tests {
		if got := Bucket(in); got != want {
			t.Fatalf("Bucket(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterMatchesSelectionExactly(t *testing.T) {
	apps := sample()
	// every subset of the six buckets
	for mask := 0; mask < 1<<len(Buckets); mask++ {
		selected := map[string]bool{}
		for i, b := range Buckets {
			if mask&(1<<i) != 0 {
				selected[b] = true
			}
		}
		got := Filter(apps, selected)
		kept := map[int64]bool{}
		for _, a := range got {
			kept[a.ApplicationID] = true
		}
		for _, a := range apps {
			want := len(selected) == 0 || selected[Bucket(a.ApplicationStatus)]
			if kept[a.ApplicationID] != want {
				t.Fatalf("mask %b: application %d (%q) kept=%v want %v", mask, a.ApplicationID, a.ApplicationStatus, kept[a.ApplicationID], want)
			}
		}
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"applied", "others,In  Progress"})
	if err != nil {
		t.Fatalf("ParseSelection: %v", err)
	}
	if !sel[StatusApplied] || !sel[StatusOthers] || !sel[StatusInProgress] || len(sel) != 3 {
		t.Fatalf("unexpected selection %v", sel)
	}
	if _, err := ParseSelection([]string{"Hired"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func ids(apps []backend.Application) []int64 {
	out := make([]int64, len(apps))
	for i, a := range apps {
		out[i] = a.ApplicationID
	}
	return out
}

func TestSort(t *testing.T) {
	tests := []struct {
		key  SortKey
		dir  string
		want []int64
	}{
		{SortAppliedDate, DirDesc, []int64{1, 4, 2, 6, 3, 5}},
		{SortAppliedDate, DirAsc, []int64{6, 2, 1, 4, 3, 5}},
		{SortMatchScore, DirDesc, []int64{3, 1, 4, 6, 5, 2}},
		{SortMatchScore, DirAsc, []int64{5, 6, 1, 4, 3, 2}},
		{SortATSScore, DirDesc, []int64{5, 2, 1, 4, 6, 3}},
		{SortATSScore, DirAsc, []int64{6, 1, 4, 2, 5, 3}},
		{SortJobTitle, DirAsc, []int64{2, 6, 5, 1, 4, 3}},
		{SortJobTitle, DirDesc, []int64{4, 1, 5, 2, 6, 3}},
		{SortCompanyName, DirAsc, []int64{1, 5, 2, 6, 3, 4}},
		{SortCompanyName, DirDesc, []int64{3, 6, 2, 1, 5, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key)+"_"+tt.dir, func(t *testing.T) {
			apps := sample()
			Sort(apps, tt.key, tt.dir)
			got := ids(apps)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestSortTieBreaksOnApplicationID(t *testing.T) {
	apps := []backend.Application{
		{ApplicationID: 9, MatchScore: score(50)},
		{ApplicationID: 3, MatchScore: score(50)},
		{ApplicationID: 7},
		{ApplicationID: 1},
	}
	Sort(apps, SortMatchScore, DirDesc)
	want := []int64{3, 9, 1, 7}
	for i, id := range ids(apps) {
		if id != want[i] {
			t.Fatalf("expected %v, got %v", want, ids(apps))
		}
	}
}

func TestParseSort(t *testing.T) {
	key, dir, err := ParseSort("", "")
	if err != nil || key != SortAppliedDate || dir != DirDesc {
		t.Fatalf("unexpected defaults %q %q %v", key, dir, err)
	}
	if _, _, err := ParseSort("salary", "asc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for key, got %v", err)
	}
	if _, _, err := ParseSort("job_title", "sideways"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for dir, got %v", err)
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sample())
	if st.Total != 6 || len(st.ByStatus) != 6 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ByStatus[0].Status != "Applied" || st.ByStatus[0].Count != 1 {
		t.Fatalf("expected first-seen order, got %+v", st.ByStatus)
	}
	if st.ByBucket[StatusOthers] != 2 || st.ByBucket[StatusInProgress] != 0 || st.ByBucket[StatusOffered] != 1 {
		t.Fatalf("unexpected buckets %v", st.ByBucket)
	}
}
