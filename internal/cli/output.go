package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

const emptyRow = "No items"

// renderTable prints rows under headers followed by a page footer. An empty
// page still prints the header and an explicit empty row.
func renderTable(out io.Writer, headers []string, rows [][]string, p models.Pagination) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	if len(rows) == 0 {
		fmt.Fprintln(tw, emptyRow)
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if p.TotalPages > 0 {
		fmt.Fprintf(out, "Page %d of %d (%d items)\n", p.Page+1, p.TotalPages, p.TotalCount)
	}
	return nil
}

func courseRows(courses []models.Course, withPopularity bool) [][]string {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		row := []string{c.ID.String(), c.Name, string(c.Category), c.Level.String()}
		if withPopularity {
			row = append(row, c.Popularity.String())
		}
		rows = append(rows, row)
	}
	return rows
}

func enrollmentRows(enrollments []models.Enrollment) [][]string {
	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{e.ID.String(), e.Name, string(e.Category), e.Level.String()})
	}
	return rows
}

// PrintError writes err the way the screens show it: the message, then one
// line per invalid field.
func PrintError(out io.Writer, err error) {
	if err == nil {
		return
	}
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Error: %s\n", appErr.Message)
	keys := make([]string, 0, len(appErr.Fields))
	for k := range appErr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %s\n", k, appErr.Fields[k])
	}
}
