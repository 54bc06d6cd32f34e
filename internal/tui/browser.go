// Package tui implements the interactive city report browser.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/display"
	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/internal/services"
)

// Datasets is the part of services.DatasetService used by the browser
type Datasets interface {
	Cities() []catalog.City
	Load(ctx context.Context, cityID string) (*services.Dataset, error)
	Invalidate(cityID string) (bool, error)
}

// Mode represents the current screen of the browser
type Mode int

const (
	ModeCities Mode = iota
	ModeLoading
	ModeReport
)

// cityItem is a catalog entry in the city list
type cityItem struct {
	city catalog.City
}

func (i cityItem) FilterValue() string { return i.city.ID }
func (i cityItem) Title() string       { return display.Title(i.city.ID) }
func (i cityItem) Description() string { return i.city.File }

// Model is the Bubbletea model of the report browser
type Model struct {
	ctx      context.Context
	datasets Datasets
	reports  *services.ReportService

	mode     Mode
	list     list.Model
	viewport viewport.Model
	width    int
	height   int

	city    string
	dataset *services.Dataset
	err     error

	// month and day are cursors: 0 is none, otherwise the month (1-12) or
	// ISO weekday (1-7). months and days hold pinned values. The filter is
	// the pinned values plus the cursor, and nothing selected means all.
	month  int
	day    int
	months []int
	days   []int

	// rawRows > 0 appends that many raw trips to the report
	rawRows int
}

// Messages
type datasetLoadedMsg struct {
	city    string
	dataset *services.Dataset
}

type loadFailedMsg struct {
	city string
	err  error
}

// New creates the browser model
func New(ctx context.Context, datasets Datasets, reports *services.ReportService) Model {
	cities := datasets.Cities()
	items := make([]list.Item, len(cities))
	for i, city := range cities {
		items[i] = cityItem{city: city}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Choose your city"
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle

	return Model{
		ctx:      ctx,
		datasets: datasets,
		reports:  reports,
		mode:     ModeCities,
		list:     l,
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

func loadCmd(ctx context.Context, datasets Datasets, city string) tea.Cmd {
	return func() tea.Msg {
		dataset, err := datasets.Load(ctx, city)
		if err != nil {
			return loadFailedMsg{city: city, err: err}
		}
		return datasetLoadedMsg{city: city, dataset: dataset}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-2, msg.Height-2)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		return m, nil

	case datasetLoadedMsg:
		if msg.city != m.city {
			return m, nil
		}
		m.dataset = msg.dataset
		m.err = nil
		m.mode = ModeReport
		m.refresh()
		return m, nil

	case loadFailedMsg:
		if msg.city != m.city {
			return m, nil
		}
		m.dataset = nil
		m.err = msg.err
		m.mode = ModeReport
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeCities:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter":
				item, ok := m.list.SelectedItem().(cityItem)
				if !ok {
					return m, nil
				}
				m.city = item.city.ID
				m.month, m.day = 0, 0
				m.months, m.days = nil, nil
				m.rawRows = 0
				m.mode = ModeLoading
				return m, loadCmd(m.ctx, m.datasets, m.city)
			}

		case ModeLoading:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case ModeReport:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "backspace":
				m.mode = ModeCities
				return m, nil
			case "m", "M":
				step := 1
				if msg.String() == "M" {
					step = len(enrich.MonthNames)
				}
				m.month = (m.month + step) % (len(enrich.MonthNames) + 1)
				m.refresh()
				return m, nil
			case "n":
				m.months = toggle(m.months, m.month)
				m.refresh()
				return m, nil
			case "d", "D":
				step := 1
				if msg.String() == "D" {
					step = len(enrich.DayNames)
				}
				m.day = (m.day + step) % (len(enrich.DayNames) + 1)
				m.refresh()
				return m, nil
			case "w":
				m.days = toggle(m.days, m.day)
				m.refresh()
				return m, nil
			case "t":
				if m.rawRows > 0 {
					m.rawRows = 0
				} else {
					m.rawRows = services.MinRawRows
				}
				m.refresh()
				return m, nil
			case "+":
				if m.rawRows > 0 {
					m.rawRows += services.MinRawRows
					m.refresh()
				}
				return m, nil
			case "r":
				if _, err := m.datasets.Invalidate(m.city); err != nil {
					m.err = err
					m.refresh()
					return m, nil
				}
				m.mode = ModeLoading
				return m, loadCmd(m.ctx, m.datasets, m.city)
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if m.mode == ModeCities {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Filter returns the month/day filter currently selected
func (m Model) Filter() models.Filter {
	return models.Filter{
		Months: selection(m.months, m.month),
		Days:   selection(m.days, m.day),
	}
}

// selection merges the cursor into the pinned values
func selection(pinned []int, cursor int) []int {
	if cursor == 0 || slices.Contains(pinned, cursor) {
		return slices.Clone(pinned)
	}
	return toggle(pinned, cursor)
}

// toggle adds or removes v from the sorted values; 0 clears them
func toggle(values []int, v int) []int {
	if v == 0 {
		return nil
	}
	i, found := slices.BinarySearch(values, v)
	if found {
		if len(values) == 1 {
			return nil
		}
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return slices.Insert(slices.Clone(values), i, v)
}

// refresh recomputes the report content for the current filter
func (m *Model) refresh() {
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

func (m Model) content() string {
	if m.err != nil {
		return display.RenderError(m.err)
	}
	if m.dataset == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(display.RenderLoad(m.dataset.Load))
	b.WriteString("\n\n")
	b.WriteString(display.RenderOverview(m.reports.Overview(m.ctx, m.dataset.Table)))
	b.WriteString("\n")

	// an empty selection stops this cycle with a message
	report, err := m.reports.Build(m.ctx, m.dataset.Table, m.Filter())
	if err != nil {
		b.WriteString(display.RenderError(err))
	} else {
		b.WriteString(display.RenderReport(report))
	}

	if m.rawRows > 0 {
		b.WriteString("\n")
		b.WriteString(display.RenderTrips(m.city, m.reports.RawTrips(m.dataset.Table, m.rawRows)))
	}

	return b.String()
}

// View renders the UI
func (m Model) View() string {
	switch m.mode {
	case ModeCities:
		help := helpStyle.Render(
			formatKey("↑/↓", "navigate") + " • " +
				formatKey("enter", "open") + " • " +
				formatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), help)

	case ModeLoading:
		return statusStyle.Render(fmt.Sprintf("Loading %s...", display.Title(m.city)))

	case ModeReport:
		header := titleStyle.Render(display.Title(m.city)) + "  " +
			statusStyle.Render(display.FilterLabel(m.Filter()))
		help := helpStyle.Render(
			formatKey("m/M", "month") + " • " +
				formatKey("n", "pin month") + " • " +
				formatKey("d/D", "day") + " • " +
				formatKey("w", "pin day") + " • " +
				formatKey("t/+", "raw trips") + " • " +
				formatKey("r", "reload") + " • " +
				formatKey("esc", "cities") + " • " +
				formatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), help)
	}

	return "Unknown mode"
}

// Run starts the interactive browser
func Run(ctx context.Context, datasets Datasets, reports *services.ReportService) error {
	p := tea.NewProgram(New(ctx, datasets, reports), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
