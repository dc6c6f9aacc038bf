// Package display derives display-ready values from patient and consultation
// records: avatar initials and colors, formatted dates, past/future visit
// partitions and status badges. Every function is pure and never fails; bad
// input degrades to a placeholder.
package display
