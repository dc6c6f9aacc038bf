package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/docapp/docapp/internal/domain/patient"
	"github.com/docapp/docapp/internal/platform/db"
	"github.com/docapp/docapp/internal/presenter"
	"github.com/docapp/docapp/pkg/display"
)

func renderPatients(out io.Writer, rows []*patient.Patient, empty string) {
	if len(rows) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tEMAIL\tPHONE\tLAST VISIT")
	for _, p := range rows {
		last := display.Placeholder
		if p.LastVisit != nil {
			last = display.FormatDate(*p.LastVisit)
		}
		fmt.Fprintf(w, "%s\t%s\t%d years\t%s\t%s\t%s\n", p.ID, p.Name, p.Age, p.Email, p.Phone, last)
	}
	w.Flush()
}

func renderProfile(out io.Writer, v presenter.ProfileView) {
	fmt.Fprintf(out, "[%s] %s  (%s)\n", v.Initials, v.Name, v.Status.Label)
	fmt.Fprintf(out, "Age:        %d (born %d)\n", v.Age, v.BirthYear)
	fmt.Fprintf(out, "Email:      %s\n", v.Email)
	fmt.Fprintf(out, "Phone:      %s\n", v.Phone)
	fmt.Fprintf(out, "Registered: %s\n", v.Registered)
	fmt.Fprintf(out, "Last visit: %s\n", v.LastVisit)
	fmt.Fprintf(out, "\nFuture visits (%d) | Past visits (%d) | Planned treatments (0)\n", len(v.Future), len(v.Past))

	if v.HistoryState == presenter.Errored {
		fmt.Fprintln(out, "Visit history could not be loaded.")
		return
	}
	if len(v.Visible) == 0 {
		fmt.Fprintln(out, v.Empty)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDIAGNOSIS\tDOCTOR\tSTATUS\tNOTES")
	for _, r := range v.Visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Date, r.Diagnosis, r.Doctor, r.Badge.Label, r.Notes)
	}
	w.Flush()
}

func renderMigrations(out io.Writer, statuses []db.MigrationStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		status, at := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				at = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.Name, status, at)
	}
	w.Flush()
}
