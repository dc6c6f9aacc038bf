package patient

import (
	"sort"
	"time"

	"github.com/docapp/docapp/pkg/display"
)

// LastVisits groups visits by patient in a single pass and keeps the latest
// calendar date of each group. Visits whose date does not parse are ignored.
func LastVisits(visits []Visit) map[string]string {
	latest := make(map[string]time.Time, len(visits))
	for _, v := range visits {
		d, ok := display.ParseDate(v.Date)
		if !ok {
			continue
		}
		if cur, seen := latest[v.PatientID]; !seen || d.After(cur) {
			latest[v.PatientID] = d
		}
	}
	out := make(map[string]string, len(latest))
	for id, d := range latest {
		out[id] = d.Format(display.DateLayout)
	}
	return out
}

// JoinLastVisits sets LastVisit on every patient, leaving it nil for patients
// without consultations. Visits that reference unknown patients are dropped.
func JoinLastVisits(patients []*Patient, visits []Visit) {
	last := LastVisits(visits)
	for _, p := range patients {
		p.LastVisit = nil
		if d, ok := last[p.ID]; ok {
			p.LastVisit = &d
		}
	}
}

// SortByDateDesc orders consultations by calendar date, latest first.
// Consultations with unparseable dates sort last; ties keep input order.
func SortByDateDesc(cs []*Consultation) {
	sort.SliceStable(cs, func(i, j int) bool {
		di, iok := display.ParseDate(cs[i].Date)
		dj, jok := display.ParseDate(cs[j].Date)
		if iok != jok {
			return iok
		}
		return di.After(dj)
	})
}
