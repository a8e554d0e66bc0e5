package collector

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/dateutil"
)

// DefaultRows is the number of item rows shown when the form opens.
const DefaultRows = 5

// Focus positions of the header fields. Grid cells follow, row by row.
const (
	fieldNumber = iota
	fieldDate
	fieldBilling
	fieldShipping
	fieldInstructions
	gridStart
)

// Editable grid columns. The row total is computed, never typed.
const (
	colQuantity = iota
	colDescription
	colUnitPrice
	gridCols
)

var columnWidths = [gridCols + 1]int{8, 30, 10, 10}

// Config configures a form.
type Config struct {
	Dir        string           // where records are written
	Rows       int              // initial item rows; 0 means DefaultRows
	DateFormat string           // dateutil format for the pre-filled date
	Now        func() time.Time // clock; nil means time.Now
	Styles     *Styles
}

// savedMsg reports the outcome of a submit.
type savedMsg struct {
	path string
	err  error
}

// Model is the invoice form. It implements tea.Model.
type Model struct {
	dir    string
	styles *Styles

	number       textinput.Model
	date         textinput.Model
	billing      textarea.Model
	shipping     textarea.Model
	instructions textarea.Model
	grid         [][gridCols]textinput.Model

	focus  int
	totals invoice.Totals

	saved    []string
	status   string
	err      error
	quitting bool
	width    int
}

var _ tea.Model = (*Model)(nil)

// New builds a form with the next free invoice number in cfg.Dir and
// today's date pre-filled.
func New(cfg Config) (*Model, error) {
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Styles == nil {
		cfg.Styles = DefaultStyles()
	}

	next, err := invoice.NextInvoiceNumber(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("numbering invoice: %w", err)
	}
	today, err := dateutil.FormatDate(cfg.DateFormat, cfg.Now())
	if err != nil {
		return nil, err
	}

	m := &Model{
		dir:          cfg.Dir,
		styles:       cfg.Styles,
		number:       newInput("001", 16),
		date:         newInput(dateutil.DefaultDateFormat, 16),
		billing:      newArea("Name and address"),
		shipping:     newArea("Name and address"),
		instructions: newArea("Delivery or payment notes"),
	}
	m.number.SetValue(next)
	m.date.SetValue(today)
	for range cfg.Rows {
		m.addRow()
	}
	m.recompute()
	m.number.Focus()
	return m, nil
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Width = width
	ti.CharLimit = 256
	return ti
}

func newArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.CharLimit = 1024
	return ta
}

func (m *Model) addRow() {
	var row [gridCols]textinput.Model
	for col := range row {
		row[col] = newInput("", columnWidths[col])
	}
	m.grid = append(m.grid, row)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := max(20, min(60, msg.Width-20))
		m.billing.SetWidth(w)
		m.shipping.SetWidth(w)
		m.instructions.SetWidth(w)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.saved = append(m.saved, msg.path)
		m.status = fmt.Sprintf("Invoice %s saved as %s (%s)",
			strings.TrimSpace(m.number.Value()), msg.path, m.totals.Label())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		return m, m.submit()
	case "ctrl+n":
		m.addRow()
		m.recompute()
		return m, m.setFocus(gridStart + (len(m.grid)-1)*gridCols)
	case "tab":
		return m, m.setFocus(m.focus + 1)
	case "shift+tab":
		return m, m.setFocus(m.focus - 1)
	case "enter":
		if !m.focusedArea() {
			return m, m.setFocus(m.focus + 1)
		}
	}

	cmd := m.updateFocused(msg)
	if m.focus >= gridStart {
		m.recompute()
	}
	return m, cmd
}

// fieldCount is the number of focusable fields.
func (m *Model) fieldCount() int {
	return gridStart + len(m.grid)*gridCols
}

func (m *Model) focusedArea() bool {
	return m.focus == fieldBilling || m.focus == fieldShipping || m.focus == fieldInstructions
}

// setFocus moves focus to position i, wrapping around both ends.
func (m *Model) setFocus(i int) tea.Cmd {
	n := m.fieldCount()
	i = ((i % n) + n) % n

	m.blurAll()
	m.focus = i
	switch i {
	case fieldNumber:
		return m.number.Focus()
	case fieldDate:
		return m.date.Focus()
	case fieldBilling:
		return m.billing.Focus()
	case fieldShipping:
		return m.shipping.Focus()
	case fieldInstructions:
		return m.instructions.Focus()
	}
	row, col := m.cell(i)
	return m.grid[row][col].Focus()
}

func (m *Model) blurAll() {
	m.number.Blur()
	m.date.Blur()
	m.billing.Blur()
	m.shipping.Blur()
	m.instructions.Blur()
	for r := range m.grid {
		for c := range m.grid[r] {
			m.grid[r][c].Blur()
		}
	}
}

func (m *Model) cell(i int) (row, col int) {
	i -= gridStart
	return i / gridCols, i % gridCols
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldNumber:
		m.number, cmd = m.number.Update(msg)
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
	case fieldBilling:
		m.billing, cmd = m.billing.Update(msg)
	case fieldShipping:
		m.shipping, cmd = m.shipping.Update(msg)
	case fieldInstructions:
		m.instructions, cmd = m.instructions.Update(msg)
	default:
		row, col := m.cell(m.focus)
		m.grid[row][col], cmd = m.grid[row][col].Update(msg)
	}
	return cmd
}

// items returns every grid row, including blank ones.
func (m *Model) items() []invoice.Item {
	items := make([]invoice.Item, len(m.grid))
	for i, row := range m.grid {
		items[i] = invoice.Item{
			Quantity:    strings.TrimSpace(row[colQuantity].Value()),
			Description: strings.TrimSpace(row[colDescription].Value()),
			UnitPrice:   strings.TrimSpace(row[colUnitPrice].Value()),
		}
	}
	return items
}

func (m *Model) recompute() {
	m.totals = invoice.ComputeTotals(m.items())
}

// Record returns the form contents as a record. Blank item rows are left out.
func (m *Model) Record() *invoice.Record {
	var items []invoice.Item
	for _, it := range m.totals.WithTotals(m.items()) {
		if !it.IsEmpty() {
			items = append(items, it)
		}
	}
	return &invoice.Record{
		Number:          strings.TrimSpace(m.number.Value()),
		Date:            strings.TrimSpace(m.date.Value()),
		BillingAddress:  strings.TrimSpace(m.billing.Value()),
		ShippingAddress: strings.TrimSpace(m.shipping.Value()),
		Instructions:    strings.TrimSpace(m.instructions.Value()),
		Items:           items,
		TotalAmount:     m.totals.Label(),
	}
}

// submit validates the form and returns the command that saves it.
func (m *Model) submit() tea.Cmd {
	rec := m.Record()
	if rec.Number == "" {
		m.err = errors.New("invoice number cannot be empty")
		m.status = ""
		return nil
	}
	dir := m.dir
	return func() tea.Msg {
		path, err := invoice.SaveRecord(dir, rec)
		return savedMsg{path: path, err: err}
	}
}

// Saved returns the paths of the records saved so far.
func (m *Model) Saved() []string {
	return m.saved
}

// Totals returns the totals of the current grid.
func (m *Model) Totals() invoice.Totals {
	return m.totals
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("New invoice"))
	b.WriteString("\n")

	fields := []struct {
		label string
		view  string
	}{
		{"Invoice number", m.number.View()},
		{"Invoice date", m.date.View()},
		{"Billing address", m.billing.View()},
		{"Shipping address", m.shipping.View()},
		{"Instructions", m.instructions.View()},
	}
	for i, f := range fields {
		label := s.Label
		if i == m.focus {
			label = s.Focused
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.label), f.view))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.gridView())

	b.WriteString(s.Total.Render(m.totals.Label()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(s.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(s.Success.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(s.Help.Render("tab/shift+tab move • ctrl+n add row • ctrl+s save • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) gridView() string {
	s := m.styles
	cell := func(col int, text string) string {
		return s.Cell.Width(columnWidths[col] + 1).Render(text)
	}

	header := []string{
		cell(colQuantity, invoice.ItemsHeader),
		cell(colDescription, "Description"),
		cell(colUnitPrice, "Unit Price"),
		cell(gridCols, "Total"),
	}

	var b strings.Builder
	b.WriteString(s.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...)))
	b.WriteString("\n")
	for r, row := range m.grid {
		cols := make([]string, 0, gridCols+1)
		for c := range row {
			cols = append(cols, cell(c, row[c].View()))
		}
		cols = append(cols, cell(gridCols, m.totals.Rows[r]))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		b.WriteString("\n")
	}
	return b.String()
}
