package worklog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lukeacko/worklog/pkg/models"
)

// Display columns in table order. Export headers are these names in title
// case.
const (
	ColID          = "id"
	ColJobNum      = "jobnum"
	ColVIN         = "vin"
	ColTechnician  = "technician"
	ColStatus      = "status"
	ColDescription = "description"
	ColDate        = "date"
)

// Columns is the display column order of the browsing table.
var Columns = []string{ColID, ColJobNum, ColVIN, ColTechnician, ColStatus, ColDescription, ColDate}

// Projection mirrors the last query result as the ordered row list backing
// the browsing table. It is derived, rebuildable state: Reload replaces it
// wholesale and the store remains authoritative.
type Projection struct {
	rows     []models.LogEntry
	sortCol  string
	sortDesc bool
	selected int
}

func NewProjection() *Projection {
	return &Projection{selected: -1}
}

// Reload replaces the row set with a fresh query result and clears the
// selection and sort state.
func (p *Projection) Reload(rows []models.LogEntry) {
	p.rows = make([]models.LogEntry, len(rows))
	copy(p.rows, rows)
	p.sortCol = ""
	p.sortDesc = false
	p.selected = -1
}

// Rows returns the rows in current display order.
func (p *Projection) Rows() []models.LogEntry {
	return p.rows
}

// Len reports the number of rows currently displayed.
func (p *Projection) Len() int {
	return len(p.rows)
}

// Drop removes the row with the given ID, as after a delete.
func (p *Projection) Drop(id string) {
	for i, r := range p.rows {
		if r.ID == id {
			p.rows = append(p.rows[:i:i], p.rows[i+1:]...)
			if p.selected == i {
				p.selected = -1
			} else if p.selected > i {
				p.selected--
			}
			return
		}
	}
}

// SortBy orders the rows by the given column, toggling between ascending
// and descending when the same column is selected again. Keys compare
// numerically when every value in the column parses as a number, otherwise
// case-insensitively as strings. The sort is stable.
func (p *Projection) SortBy(col string) {
	if p.sortCol == col {
		p.sortDesc = !p.sortDesc
	} else {
		p.sortCol = col
		p.sortDesc = false
	}

	keys := make([]string, len(p.rows))
	numeric := len(p.rows) > 0
	nums := make([]float64, len(p.rows))
	for i, r := range p.rows {
		keys[i] = columnValue(r, col)
		if numeric {
			v, err := strconv.ParseFloat(keys[i], 64)
			if err != nil {
				numeric = false
			} else {
				nums[i] = v
			}
		}
	}

	desc := p.sortDesc
	idx := make([]int, len(p.rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if desc {
			i, j = j, i
		}
		if numeric {
			return nums[i] < nums[j]
		}
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	ordered := make([]models.LogEntry, len(p.rows))
	for out, in := range idx {
		ordered[out] = p.rows[in]
	}
	p.rows = ordered
	p.selected = -1
}

// Select marks the row at index as selected; -1 clears the selection.
func (p *Projection) Select(index int) {
	if index < -1 || index >= len(p.rows) {
		index = -1
	}
	p.selected = index
}

// Selected returns the selected row, or nil when no row is selected.
func (p *Projection) Selected() *models.LogEntry {
	if p.selected < 0 || p.selected >= len(p.rows) {
		return nil
	}
	r := p.rows[p.selected]
	return &r
}

// CanModify reports whether the edit/delete affordances are enabled: true
// exactly when a row is selected.
func (p *Projection) CanModify() bool {
	return p.Selected() != nil
}

func columnValue(e models.LogEntry, col string) string {
	switch col {
	case ColID:
		return e.ID
	case ColJobNum:
		return e.JobNum
	case ColVIN:
		return e.VIN
	case ColTechnician:
		return e.Technician
	case ColStatus:
		return e.Status
	case ColDescription:
		return e.Description
	case ColDate:
		return e.Date
	default:
		return ""
	}
}
