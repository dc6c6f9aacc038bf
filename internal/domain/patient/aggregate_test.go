package patient

import "testing"

func TestLastVisits(t *testing.T) {
	visits := []Visit{
		{PatientID: "a", Date: "2024-01-15"},
		{PatientID: "b", Date: "2024-01-10"},
		{PatientID: "a", Date: "2024-3-9"},
		{PatientID: "a", Date: "2024-02-20"},
		{PatientID: "b", Date: "not-a-date"},
		{PatientID: "c", Date: ""},
	}
	got := LastVisits(visits)

	if got["a"] != "2024-03-09" {
		t.Errorf("expected a=2024-03-09 (true date max), got %q", got["a"])
	}
	if got["b"] != "2024-01-10" {
		t.Errorf("expected b=2024-01-10, got %q", got["b"])
	}
	if _, ok := got["c"]; ok {
		t.Error("expected no entry for patient with only unparseable dates")
	}
}

func TestJoinLastVisits(t *testing.T) {
	stale := "1999-01-01"
	patients := []*Patient{{ID: "a"}, {ID: "b", LastVisit: &stale}}
	JoinLastVisits(patients, []Visit{
		{PatientID: "a", Date: "2024-01-05"},
		{PatientID: "a", Date: "2024-03-18"},
		{PatientID: "ghost", Date: "2025-01-01"},
	})

	if patients[0].LastVisit == nil || *patients[0].LastVisit != "2024-03-18" {
		t.Errorf("expected 2024-03-18, got %v", patients[0].LastVisit)
	}
	if patients[1].LastVisit != nil {
		t.Errorf("expected absent lastVisit, got %v", *patients[1].LastVisit)
	}
}

func TestSortByDateDesc(t *testing.T) {
	cs := []*Consultation{
		{ID: "1", Date: "2024-1-5"},
		{ID: "2", Date: "garbage"},
		{ID: "3", Date: "2024-03-18"},
		{ID: "4", Date: "2024-02-12"},
		{ID: "5", Date: "2024-10-01"},
	}
	SortByDateDesc(cs)

	want := []string{"5", "3", "4", "1", "2"}
	for i, w := range want {
		if cs[i].ID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, cs[i].ID)
		}
	}
}
