package live

// Layout is the screen geometry of a rendered grid. Cells are CellWidth x
// CellHeight including their border, separated horizontally by Gap columns
// and stacked without vertical spacing below Top header lines.
type Layout struct {
	Top        int
	Left       int
	CellWidth  int
	CellHeight int
	Gap        int
	GridSize   int
}

// CellAt maps a terminal coordinate to a linear cell index. Clicks on the
// gap between cells or outside the grid report false.
func (l Layout) CellAt(x, y int) (int, bool) {
	if l.GridSize <= 0 || l.CellWidth <= 0 || l.CellHeight <= 0 {
		return 0, false
	}
	x -= l.Left
	y -= l.Top
	if x < 0 || y < 0 {
		return 0, false
	}
	stride := l.CellWidth + l.Gap
	column := x / stride
	if x%stride >= l.CellWidth {
		return 0, false
	}
	row := y / l.CellHeight
	if row >= l.GridSize || column >= l.GridSize {
		return 0, false
	}
	return row*l.GridSize + column, true
}

// Width is the total grid width in columns.
func (l Layout) Width() int {
	if l.GridSize <= 0 {
		return 0
	}
	return l.GridSize*l.CellWidth + (l.GridSize-1)*l.Gap
}

// Height is the total grid height in rows.
func (l Layout) Height() int {
	return l.GridSize * l.CellHeight
}
