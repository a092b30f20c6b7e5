// Package report exports team radar charts as an xlsx workbook: one sheet
// per pillar, one row per player and one column per axis.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
)

// ErrNoSheets is returned when there is nothing to export.
var ErrNoSheets = errors.New("report: no sheets")

const defaultSheet = "Sheet1"

// Sheet is one pillar's charts for a team.
type Sheet struct {
	Pillar pillar.Pillar
	Charts []radar.Chart
}

// Name is the worksheet name for s.
func (s Sheet) Name() string {
	name := s.Pillar.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Build lays sheets out in a new workbook. Charts without a player id
// (failed builds) are skipped. The caller closes the returned file.
func Build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for _, s := range sheets {
		if err := writeSheet(f, s, header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.Name(), err)
		}
	}
	f.DeleteSheet(defaultSheet)
	if idx, err := f.GetSheetIndex(sheets[0].Name()); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, sheets []Sheet) error {
	f, err := Build(sheets)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and writes it to path.
func Save(path string, sheets []Sheet) error {
	f, err := Build(sheets)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	name := s.Name()
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	axes := s.Pillar.Axes()
	row := make([]interface{}, 0, len(axes)+3)
	row = append(row, "Player", "Quarter")
	for _, a := range axes {
		row = append(row, a.Label)
	}
	row = append(row, "Unclassified")
	if err := f.SetSheetRow(name, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(row), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(name, "A", "A", 24); err != nil {
		return err
	}

	r := 2
	for _, c := range s.Charts {
		if c.PlayerID == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, cellsFor(c, axes)); err != nil {
			return err
		}
		r++
	}
	return nil
}

// cellsFor returns the row for c in axes order. Coach-only axes are
// written as radar.NoScore.
func cellsFor(c radar.Chart, axes []pillar.Axis) *[]interface{} {
	byKey := make(map[string]radar.AxisView, len(c.Axes))
	for _, a := range c.Axes {
		byKey[a.Key] = a
	}

	row := make([]interface{}, 0, len(axes)+3)
	row = append(row, c.PlayerID, c.Quarter.String())
	for _, a := range axes {
		v, ok := byKey[a.Key]
		switch {
		case !ok:
			row = append(row, 0.0)
		case v.Score == nil:
			row = append(row, radar.NoScore)
		default:
			row = append(row, *v.Score)
		}
	}
	row = append(row, c.Unclassified)
	return &row
}
