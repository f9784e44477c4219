package export

import (
	"encoding/csv"
	"io"

	"github.com/cinescope/hrdash/internal/dashboard"
)

// WriteTableCSV emits one table with its header.
func WriteTableCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	record := make([]string, 0, len(t.Header))
	for _, row := range t.Rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, formatCell(cell))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDashboardCSV writes every table as a titled section separated by a
// blank line.
func WriteDashboardCSV(w io.Writer, d *dashboard.Dashboard) error {
	for i, t := range Tables(d) {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "# "+t.Title+"\n"); err != nil {
			return err
		}
		if err := WriteTableCSV(w, t); err != nil {
			return err
		}
	}
	return nil
}
