package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	// title, status line, date header and help footer.
	chromeLines = 4
	gutterWidth = 2
	scrollDays  = 7
)

func newViewCmd(app *App) *cobra.Command {
	var flags ganttFlags

	cmd := &cobra.Command{
		Use:   "view PROJECT",
		Short: "Browse a project's gantt chart interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("view needs a terminal; use `gantry gantt %s` instead", args[0])
			}
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(newGanttView(app, req), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

type viewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Search   key.Binding
	Clear    key.Binding
	HideDone key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func defaultViewKeys() viewKeyMap {
	return viewKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "scroll days")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "collapse")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		HideDone: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "hide done")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Toggle, k.Search, k.Clear, k.HideDone, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ganttLoadedMsg carries a fresh layout for the current scroll position.
type ganttLoadedMsg struct {
	resp *contract.GanttResponse
	err  error
}

// ganttView is a scrollable gantt chart. Only the rows the service
// materializes for the current viewport are drawn; moving past them
// requests a new layout.
type ganttView struct {
	app       *App
	req       contract.GanttRequest
	collapsed map[string]bool

	resp *contract.GanttResponse
	err  error

	cursor   int
	top      int
	firstDay int

	width  int
	height int
	keys   viewKeyMap
	help   help.Model

	search      *huh.Form
	searchInput string
}

func newGanttView(app *App, req contract.GanttRequest) *ganttView {
	v := &ganttView{
		app:       app,
		req:       req,
		collapsed: make(map[string]bool),
		keys:      defaultViewKeys(),
		help:      help.New(),
		width:     80,
		height:    24,
	}
	for _, id := range req.Filter.Collapsed {
		v.collapsed[id] = true
	}
	return v
}

func (v *ganttView) Init() tea.Cmd {
	return v.load()
}

func (v *ganttView) bodyRows() int {
	if n := v.height - chromeLines; n > 1 {
		return n
	}
	return 1
}

func (v *ganttView) labelWidth() int {
	if v.resp == nil {
		return len("TASK")
	}
	return formatter.LabelWidth(v.resp.Layout.Bars)
}

func (v *ganttView) chartDays() int {
	if n := v.width - gutterWidth - v.labelWidth() - 1; n > 1 {
		return n
	}
	return 1
}

func (v *ganttView) totalRows() int {
	if v.resp == nil {
		return 0
	}
	return v.resp.VisibleTasks
}

func (v *ganttView) load() tea.Cmd {
	req := v.req
	req.Filter.Collapsed = req.Filter.Collapsed[:0:0]
	for id := range v.collapsed {
		req.Filter.Collapsed = append(req.Filter.Collapsed, id)
	}
	rowHeight := v.app.GanttConfig.Normalize().RowHeight
	req.ScrollOffset = float64(v.top) * rowHeight
	req.ViewportHeight = float64(v.bodyRows()) * rowHeight

	svc := v.app.Gantt
	return func() tea.Msg {
		resp, err := svc.Layout(context.Background(), req)
		return ganttLoadedMsg{resp: resp, err: err}
	}
}

// scrollTo keeps the cursor on screen and reports whether the rows now
// in view fall outside the materialized range.
func (v *ganttView) scrollTo(cursor int) bool {
	total := v.totalRows()
	if cursor >= total {
		cursor = total - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	v.cursor = cursor

	body := v.bodyRows()
	if v.cursor < v.top {
		v.top = v.cursor
	}
	if v.cursor >= v.top+body {
		v.top = v.cursor - body + 1
	}
	if maxTop := total - body; v.top > maxTop {
		v.top = maxTop
	}
	if v.top < 0 {
		v.top = 0
	}

	if v.resp == nil || total == 0 {
		return false
	}
	last := v.top + body - 1
	if last >= total {
		last = total - 1
	}
	rows := v.resp.Layout.Rows
	return v.top < rows.StartIndex || last > rows.EndIndex
}

func (v *ganttView) scrollDaysBy(delta int) {
	if v.resp == nil {
		return
	}
	maxFirst := v.resp.Layout.Columns.Len() - v.chartDays()
	v.firstDay += delta
	if v.firstDay > maxFirst {
		v.firstDay = maxFirst
	}
	if v.firstDay < 0 {
		v.firstDay = 0
	}
}

func (v *ganttView) resetScroll() {
	v.cursor, v.top = 0, 0
}

func (v *ganttView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.search != nil {
		return v.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.help.Width = msg.Width
		if v.scrollTo(v.cursor) {
			return v, v.load()
		}
		return v, nil

	case ganttLoadedMsg:
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.resp = msg.resp
		v.scrollDaysBy(0)
		if v.scrollTo(v.cursor) {
			return v, v.load()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *ganttView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	move := func(to int) (tea.Model, tea.Cmd) {
		if v.scrollTo(to) {
			return v, v.load()
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Up):
		return move(v.cursor - 1)
	case key.Matches(msg, v.keys.Down):
		return move(v.cursor + 1)
	case key.Matches(msg, v.keys.PageUp):
		return move(v.cursor - v.bodyRows())
	case key.Matches(msg, v.keys.PageDown):
		return move(v.cursor + v.bodyRows())
	case key.Matches(msg, v.keys.Left):
		v.scrollDaysBy(-scrollDays)
		return v, nil
	case key.Matches(msg, v.keys.Right):
		v.scrollDaysBy(scrollDays)
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggleCollapse()
	case key.Matches(msg, v.keys.Search):
		v.searchInput = v.req.Filter.Search
		v.search = searchForm(&v.searchInput, v.width)
		return v, v.search.Init()
	case key.Matches(msg, v.keys.Clear):
		if v.req.Filter.Search == "" && len(v.req.Filter.Statuses) == 0 {
			return v, nil
		}
		v.req.Filter.Search = ""
		v.req.Filter.Statuses = nil
		v.resetScroll()
		return v, v.load()
	case key.Matches(msg, v.keys.HideDone):
		v.req.Filter.HideCompleted = !v.req.Filter.HideCompleted
		v.resetScroll()
		return v, v.load()
	case key.Matches(msg, v.keys.Refresh):
		return v, v.load()
	}
	return v, nil
}

// toggleCollapse folds or unfolds the task under the cursor when it
// groups other tasks.
func (v *ganttView) toggleCollapse() tea.Cmd {
	if v.resp == nil || v.cursor >= len(v.resp.Visible) {
		return nil
	}
	t := v.resp.Visible[v.cursor]
	if v.collapsed[t.ID] {
		delete(v.collapsed, t.ID)
		return v.load()
	}
	if !t.IsPhase && !v.hasChildren(t.ID) {
		return nil
	}
	v.collapsed[t.ID] = true
	return v.load()
}

func (v *ganttView) hasChildren(id string) bool {
	for i := range v.resp.Visible {
		if v.resp.Visible[i].GroupID() == id {
			return true
		}
	}
	return false
}

func (v *ganttView) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		v.search = nil
		return v, nil
	}

	form, cmd := v.search.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.search = f
	}

	switch v.search.State {
	case huh.StateCompleted:
		v.search = nil
		v.req.Filter.Search = strings.TrimSpace(v.searchInput)
		v.resetScroll()
		return v, v.load()
	case huh.StateAborted:
		v.search = nil
		return v, nil
	}
	return v, cmd
}

func (v *ganttView) View() string {
	if v.search != nil {
		return v.search.View()
	}
	if v.err != nil {
		return formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n\n" + formatter.Dim("r to retry · q to quit")
	}
	if v.resp == nil {
		return formatter.Dim("Loading…")
	}

	var b strings.Builder
	b.WriteString(formatter.Header(v.resp.Project.Name) + "  " + v.statusLine() + "\n")

	layout := v.resp.Layout
	if len(v.resp.Visible) == 0 {
		b.WriteString(formatter.Dim("No tasks match.") + "\n")
		b.WriteString(v.help.View(v.keys))
		return b.String()
	}

	w := formatter.ChartWindow{LabelWidth: v.labelWidth(), FirstDay: v.firstDay, Days: v.chartDays()}
	totalDays := layout.Columns.Len()
	b.WriteString(strings.Repeat(" ", gutterWidth) + formatter.DateHeader(layout.ViewStart, totalDays, w) + "\n")

	byRow := make(map[int]gantt.Bar, len(layout.Bars))
	for _, bar := range layout.Bars {
		byRow[bar.Row] = bar
	}
	end := v.top + v.bodyRows()
	if end > len(v.resp.Visible) {
		end = len(v.resp.Visible)
	}
	for r := v.top; r < end; r++ {
		bar, ok := byRow[r]
		if !ok {
			b.WriteString("\n")
			continue
		}
		b.WriteString(v.gutter(r, bar) + formatter.ChartRow(bar, layout.DayWidth, totalDays, w) + "\n")
	}
	b.WriteString(v.help.View(v.keys))
	return b.String()
}

func (v *ganttView) gutter(row int, bar gantt.Bar) string {
	marker, fold := " ", " "
	if row == v.cursor {
		marker = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Render("▶")
	}
	if v.collapsed[bar.TaskID] {
		fold = formatter.StyleDim.Render("+")
	}
	return marker + fold
}

func (v *ganttView) statusLine() string {
	parts := []string{fmt.Sprintf("%d/%d tasks", v.resp.VisibleTasks, v.resp.TotalTasks)}
	if n := v.totalRows(); n > 0 {
		last := v.top + v.bodyRows()
		if last > n {
			last = n
		}
		parts = append(parts, fmt.Sprintf("rows %d–%d", v.top+1, last))
	}
	if v.resp.VisibleTasks > 0 {
		first := v.resp.Layout.ViewStart.AddDate(0, 0, v.firstDay)
		parts = append(parts, "from "+formatter.ShortDate(first))
	}
	f := v.req.Filter
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.HideCompleted {
		parts = append(parts, "done hidden")
	}
	if len(v.collapsed) > 0 {
		parts = append(parts, fmt.Sprintf("%d collapsed", len(v.collapsed)))
	}
	return formatter.Dim(strings.Join(parts, " · "))
}
