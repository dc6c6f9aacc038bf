package display

// Badge is a labelled, styled marker shown next to a record.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

var (
	BadgeActive    = Badge{Label: "Active", Class: "bg-green-100 text-green-700"}
	BadgeOngoing   = Badge{Label: "Ongoing", Class: "bg-blue-100 text-blue-700"}
	BadgeOverdue   = Badge{Label: "Overdue", Class: "bg-red-100 text-red-700"}
	BadgeCompleted = Badge{Label: "Completed", Class: "bg-slate-100 text-slate-700"}

	BadgeScheduled = Badge{Label: "Scheduled", Class: "bg-purple-100 text-purple-700"}
	BadgeVisited   = Badge{Label: "Completed", Class: "bg-green-100 text-green-700"}
)

// StatusBadge maps a patient status onto its badge. Absent or unknown
// statuses fall into the completed category.
func StatusBadge(status string) Badge {
	switch status {
	case "active":
		return BadgeActive
	case "ongoing":
		return BadgeOngoing
	case "overdue":
		return BadgeOverdue
	default:
		return BadgeCompleted
	}
}

// VisitBadge marks a consultation as done or upcoming.
func VisitBadge(past bool) Badge {
	if past {
		return BadgeVisited
	}
	return BadgeScheduled
}
