package planning

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvCellText = map[CellStatus]string{
	StatusOutOfPlan:  "-",
	StatusPending:    "PENDENTE",
	StatusScheduled:  "AGENDADA",
	StatusInProgress: "EM_ANDAMENTO",
	StatusCompleted:  "OK",
}

// WriteGridCSV renders the grid as the dashboard's flat export: one row per
// asset, columns Location, Code, Equipment, Type, then S1..S52.
func WriteGridCSV(w io.Writer, grid *Grid) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, 4+WeeksPerYear)
	header = append(header, "Location", "Code", "Equipment", "Type")
	for i := 1; i <= WeeksPerYear; i++ {
		header = append(header, fmt.Sprintf("S%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 4+WeeksPerYear)
	for _, row := range grid.Rows {
		record[0] = row.Asset.Location
		record[1] = row.Asset.Code
		record[2] = row.Asset.Name
		record[3] = row.Asset.Type
		for week, cell := range row.Cells {
			record[4+week] = csvCellText[cell.Status]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
