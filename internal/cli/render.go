package cli

import (
	"fmt"
	"io"
	"strings"

	"roomres/internal/model"
	"roomres/internal/service"
)

type column struct {
	header string
	width  int
	value  func(r *model.Reservation) string
}

var tableColumns = []column{
	{"Reservation ID", 20, func(r *model.Reservation) string { return r.ID }},
	{"Date", 12, func(r *model.Reservation) string { return r.Date }},
	{"Room", 14, func(r *model.Reservation) string { return r.Room }},
	{"Start Time", 12, func(r *model.Reservation) string { return r.StartTime }},
	{"End Time", 12, func(r *model.Reservation) string { return r.EndTime }},
	{"Student Name", 24, func(r *model.Reservation) string { return r.StudentName }},
	{"Student No.", 12, func(r *model.Reservation) string { return r.StudentNumber }},
}

// renderTable writes reservations as a boxed ASCII table.
func renderTable(out io.Writer, reservations []model.Reservation) {
	if len(reservations) == 0 {
		fmt.Fprintln(out, "No reservations found.")
		return
	}

	border := tableBorder()
	fmt.Fprintln(out, border)

	var header strings.Builder
	header.WriteByte('|')
	for _, col := range tableColumns {
		fmt.Fprintf(&header, " %-*s |", col.width, col.header)
	}
	fmt.Fprintln(out, header.String())
	fmt.Fprintln(out, border)

	for i := range reservations {
		var row strings.Builder
		row.WriteByte('|')
		for _, col := range tableColumns {
			fmt.Fprintf(&row, " %-*s |", col.width, truncate(col.value(&reservations[i]), col.width))
		}
		fmt.Fprintln(out, row.String())
	}
	fmt.Fprintln(out, border)
}

// renderDraft prints the collected fields before confirmation.
func renderDraft(out io.Writer, req *service.Request) {
	fmt.Fprintf(out, "  Room:           %s\n", req.Room)
	fmt.Fprintf(out, "  Student Name:   %s\n", req.StudentName)
	fmt.Fprintf(out, "  Student Number: %s\n", req.StudentNumber)
	fmt.Fprintf(out, "  Date:           %s\n", req.Date)
	fmt.Fprintf(out, "  Start Time:     %s\n", req.StartTime)
	fmt.Fprintf(out, "  End Time:       %s\n", req.EndTime)
}

func tableBorder() string {
	var b strings.Builder
	b.WriteByte('+')
	for _, col := range tableColumns {
		b.WriteString(strings.Repeat("-", col.width+2))
		b.WriteByte('+')
	}
	return b.String()
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
