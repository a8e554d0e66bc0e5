package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// Table is a w:tbl element.
type Table struct {
	el *etree.Element
}

// Row is a w:tr element.
type Row struct {
	el *etree.Element
}

// Cell is a w:tc element.
type Cell struct {
	el *etree.Element
}

// Paragraph is a w:p element.
type Paragraph struct {
	el *etree.Element
}

// Rows returns the table rows top to bottom.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, el := range t.el.SelectElements("w:tr") {
		rows = append(rows, &Row{el: el})
	}
	return rows
}

// GridColumns returns the number of columns declared in w:tblGrid.
func (t *Table) GridColumns() int {
	grid := t.el.SelectElement("w:tblGrid")
	if grid == nil {
		return 0
	}
	return len(grid.SelectElements("w:gridCol"))
}

// AddRow appends an empty row after the last one and returns it.
// The new row is a copy of the last row with every cell cleared, so it
// keeps the column widths and run formatting of the rows above it. A
// table without rows gets one empty cell per grid column.
func (t *Table) AddRow() *Row {
	rows := t.Rows()
	if len(rows) == 0 {
		tr := t.el.CreateElement("w:tr")
		for i := 0; i < t.GridColumns(); i++ {
			tr.CreateElement("w:tc").CreateElement("w:p")
		}
		return &Row{el: tr}
	}

	last := rows[len(rows)-1].el
	tr := last.Copy()
	if trPr := tr.SelectElement("w:trPr"); trPr != nil {
		// A repeated header flag must not follow the copy.
		for _, h := range trPr.SelectElements("w:tblHeader") {
			trPr.RemoveChild(h)
		}
	}
	t.el.InsertChildAt(last.Index()+1, tr)

	row := &Row{el: tr}
	for _, c := range row.Cells() {
		c.SetText("")
	}
	return row
}

// Cells returns the row cells left to right.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, el := range r.el.SelectElements("w:tc") {
		cells = append(cells, &Cell{el: el})
	}
	return cells
}

// Text returns the cell text: its paragraphs joined with newlines.
func (c *Cell) Text() string {
	paras := c.el.SelectElements("w:p")
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = paragraphText(p)
	}
	return strings.Join(texts, "\n")
}

// SetText replaces the cell content with a single paragraph holding text.
// Cell properties are kept, as are the paragraph and run properties of
// the first paragraph, so replaced text keeps the template's styling.
// Newlines become w:br and tabs become w:tab.
func (c *Cell) SetText(text string) {
	var pPr, rPr *etree.Element
	if p := c.el.SelectElement("w:p"); p != nil {
		if e := p.SelectElement("w:pPr"); e != nil {
			pPr = e.Copy()
		}
		if r := firstRun(p); r != nil {
			if e := r.SelectElement("w:rPr"); e != nil {
				rPr = e.Copy()
			}
		}
	}

	for _, child := range c.el.ChildElements() {
		if child.FullTag() != "w:tcPr" {
			c.el.RemoveChild(child)
		}
	}

	p := c.el.CreateElement("w:p")
	if pPr != nil {
		p.AddChild(pPr)
	}
	if text == "" {
		return
	}
	r := p.CreateElement("w:r")
	if rPr != nil {
		r.AddChild(rPr)
	}
	writeRunText(r, text)
}

// Alignment returns the justification (w:jc) of the first paragraph of the
// cell, or "" when unset.
func (c *Cell) Alignment() string {
	p := c.el.SelectElement("w:p")
	if p == nil {
		return ""
	}
	return (&Paragraph{el: p}).Alignment()
}

// Text returns the paragraph text.
func (p *Paragraph) Text() string {
	return paragraphText(p.el)
}

// Style returns the paragraph style ID (w:pStyle), or "" when unset.
func (p *Paragraph) Style() string {
	return p.property("w:pStyle")
}

// Alignment returns the paragraph justification (w:jc), or "" when unset.
func (p *Paragraph) Alignment() string {
	return p.property("w:jc")
}

func (p *Paragraph) property(tag string) string {
	pPr := p.el.SelectElement("w:pPr")
	if pPr == nil {
		return ""
	}
	e := pPr.SelectElement(tag)
	if e == nil {
		return ""
	}
	return e.SelectAttrValue("w:val", "")
}

// paragraphText concatenates the runs of p, following hyperlinks and
// tracked insertions but not deletions.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	collectRuns(p, &sb)
	return sb.String()
}

func collectRuns(el *etree.Element, sb *strings.Builder) {
	for _, child := range el.ChildElements() {
		switch child.FullTag() {
		case "w:r":
			runText(child, sb)
		case "w:hyperlink", "w:ins", "w:smartTag", "w:fldSimple":
			collectRuns(child, sb)
		}
	}
}

func runText(r *etree.Element, sb *strings.Builder) {
	for _, child := range r.ChildElements() {
		switch child.FullTag() {
		case "w:t":
			sb.WriteString(child.Text())
		case "w:tab":
			sb.WriteByte('\t')
		case "w:br", "w:cr":
			sb.WriteByte('\n')
		case "w:noBreakHyphen":
			sb.WriteByte('-')
		}
	}
}

func firstRun(p *etree.Element) *etree.Element {
	if r := p.SelectElement("w:r"); r != nil {
		return r
	}
	for _, child := range p.ChildElements() {
		if r := child.SelectElement("w:r"); r != nil {
			return r
		}
	}
	return nil
}

// writeRunText appends text to run r as w:t, w:tab and w:br elements.
func writeRunText(r *etree.Element, text string) {
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		s := seg.String()
		t := r.CreateElement("w:t")
		if strings.TrimSpace(s) != s {
			t.CreateAttr("xml:space", "preserve")
		}
		t.SetText(s)
		seg.Reset()
	}

	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.CreateElement("w:tab")
		case '\n':
			flush()
			r.CreateElement("w:br")
		case '\r':
		default:
			seg.WriteRune(ch)
		}
	}
	flush()
}
