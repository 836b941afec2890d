package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-firewatch/internal/dashboard"
	"go-firewatch/internal/feed"
	"go-firewatch/internal/logging"
	"go-firewatch/internal/notify"
)

var (
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"})
	specialStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F0E442", Dark: "#F0E442"})
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"})
	extremeStyle = dangerStyle.Bold(true).Underline(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8590C")).Bold(true)

	activeTab   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("#E8590C")).Foreground(lipgloss.Color("#E8590C")).Bold(true).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{Light: "#AAA", Dark: "#555"})

	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#E8590C")).Padding(1, 2)

	colID    = lipgloss.NewStyle().Width(5)
	colName  = lipgloss.NewStyle().Width(20)
	colNum   = lipgloss.NewStyle().Width(10)
	colRisk  = lipgloss.NewStyle().Width(14)
	colTime  = lipgloss.NewStyle().Width(20)
	colEmail = lipgloss.NewStyle().Width(26)
)

type sessionState int

const (
	stateDashboard sessionState = iota
	stateForm
	stateSelectPoint
)

type opDoneMsg struct {
	form formKind
	err  error
}

type modalFlushMsg struct{}

// registerShownMsg fires once the registration success notice has had its time on screen.
type registerShownMsg struct{}

type signalMsg struct {
	sig feed.Signal
	ok  bool
}

type Deps struct {
	Controller *dashboard.Controller
	Notices    *notify.Queue
	Host       *ModalHost
	Logs       *logging.Buffer
	Signals    <-chan feed.Signal
}

type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	notices *notify.Queue
	host    *ModalHost
	logs    *logging.Buffer
	signals <-chan feed.Signal

	state sessionState
	form  formKind
	st    dashboard.State

	cursor       int
	tableOffset  int
	maxTableRows int

	inputs   []textinput.Model
	focus    int
	errorMsg string

	showLogs     bool
	logViewport  viewport.Model
	formViewport viewport.Model
	pointList    list.Model

	busy    int
	spinner spinner.Model
}

func New(ctx context.Context, d Deps) Model {
	vpLogs := viewport.New(100, 20)
	vpLogs.SetContent("Waiting for logs...")
	vpForm := viewport.New(100, 20)

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select Monitor Point"
	l.SetShowHelp(false)

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	m := Model{
		ctx:          ctx,
		ctrl:         d.Controller,
		notices:      d.Notices,
		host:         d.Host,
		logs:         d.Logs,
		signals:      d.Signals,
		state:        stateDashboard,
		logViewport:  vpLogs,
		formViewport: vpForm,
		pointList:    l,
		maxTableRows: 10,
		spinner:      spin,
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return t }),
		m.waitForSignal(),
		func() tea.Msg {
			m.ctrl.LoadInitialData(m.ctx)
			return opDoneMsg{}
		},
	)
}

func (m Model) waitForSignal() tea.Cmd {
	if m.signals == nil {
		return nil
	}
	ch := m.signals
	return func() tea.Msg {
		sig, ok := <-ch
		return signalMsg{sig: sig, ok: ok}
	}
}

// run executes a controller action off the event loop.
func (m *Model) run(form formKind, fn func(context.Context) error) tea.Cmd {
	m.busy++
	ctx := m.ctx
	do := func() tea.Msg { return opDoneMsg{form: form, err: fn(ctx)} }
	if m.busy == 1 {
		return tea.Batch(do, m.spinner.Tick)
	}
	return do
}

func flushModals() tea.Msg {
	return modalFlushMsg{}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 5
		footerHeight := 2
		m.maxTableRows = msg.Height - headerHeight - footerHeight - 4
		if m.maxTableRows < 1 {
			m.maxTableRows = 1
		}

		m.logViewport.Width = msg.Width
		m.logViewport.Height = msg.Height - 6

		m.formViewport.Width = msg.Width
		m.formViewport.Height = msg.Height - 3

		m.pointList.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case time.Time:
		m.sync()
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg { return t })

	case spinner.TickMsg:
		if m.busy == 0 {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		if m.busy > 0 {
			m.busy--
		}
		m.sync()
		return m, m.afterOp(msg)

	case registerShownMsg:
		m.sync()
		return m, nil

	case modalFlushMsg:
		m.ctrl.Modals().Flush()
		if active, _, ok := m.host.Active(); ok {
			m.openForm(modalForm(active))
		}
		return m, nil

	case signalMsg:
		if !msg.ok {
			return m, nil
		}
		return m, tea.Batch(
			m.run(formNone, func(ctx context.Context) error {
				m.ctrl.RefreshActive(ctx)
				return nil
			}),
			m.waitForSignal(),
		)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if _, ok := m.notices.Current(); ok {
			switch msg.String() {
			case "enter", "esc", " ":
				m.notices.Ack()
			}
			return m, nil
		}

		if m.st.Pending != nil {
			switch msg.String() {
			case "y", "Y":
				return m, m.run(formNone, m.ctrl.ConfirmPending)
			case "n", "N", "esc":
				m.ctrl.CancelPending()
				m.sync()
			}
			return m, nil
		}

		if msg.String() == "ctrl+l" {
			m.showLogs = !m.showLogs
			m.sync()
			return m, nil
		}

		switch m.state {
		case stateSelectPoint:
			switch msg.String() {
			case "esc":
				m.state = stateForm
				m.updateFormContent()
				return m, nil
			case "enter":
				if itm, ok := m.pointList.SelectedItem().(pointItem); ok {
					m.inputs[0].SetValue(itm.idString())
					m.storeForm()
				}
				m.state = stateForm
				m.updateFormContent()
				return m, nil
			}
			m.pointList, cmd = m.pointList.Update(msg)
			return m, cmd

		case stateForm:
			return m.updateForm(msg)

		default:
			if m.showLogs {
				switch msg.String() {
				case "esc", "q":
					m.showLogs = false
				case "pgup", "pgdown":
					m.logViewport, cmd = m.logViewport.Update(msg)
					return m, cmd
				case "up", "k":
					m.logViewport.LineUp(1)
				case "down", "j":
					m.logViewport.LineDown(1)
				}
				return m, nil
			}
			return m.updateDashboard(msg)
		}
	}

	if m.state == stateForm {
		for i := range m.inputs {
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		m.updateFormContent()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m, m.switchView(m.st.View + 1)
	case "shift+tab":
		return m, m.switchView(m.st.View - 1)
	case "1", "2", "3", "4", "5":
		return m, m.switchView(dashboard.View(key[0] - '1'))
	case "r":
		return m, m.switchView(m.st.View)
	case "L":
		if !m.st.Session.LoggedIn() {
			m.ctrl.ShowRegister(false)
			m.sync()
			m.openForm(formLogin)
		}
		return m, nil
	case "o":
		if m.st.Session.LoggedIn() {
			m.cursor, m.tableOffset = 0, 0
			return m, m.run(formNone, func(ctx context.Context) error {
				m.ctrl.Logout(ctx)
				return nil
			})
		}
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.tableOffset {
				m.tableOffset = m.cursor
			}
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
			if m.cursor >= m.tableOffset+m.maxTableRows {
				m.tableOffset++
			}
		}
		return m, nil
	}

	switch m.st.View {
	case dashboard.ViewMonitor:
		return m.monitorKeys(key)
	case dashboard.ViewPrediction:
		return m.predictionKeys(key)
	case dashboard.ViewFireSettings:
		if key == "e" || key == "enter" {
			m.openForm(formThreshold)
		}
	case dashboard.ViewUsers:
		return m.userKeys(key)
	}
	return m, nil
}

func (m Model) monitorKeys(key string) (tea.Model, tea.Cmd) {
	records := m.st.Cache.MonitorRecords
	switch key {
	case "n":
		m.ctrl.OpenAddRecord()
		m.sync()
		return m, flushModals
	case "p":
		m.ctrl.OpenAddPoint()
		m.sync()
		return m, flushModals
	case "enter":
		if m.cursor < len(records) {
			m.ctrl.MonitorDetail(records[m.cursor])
		}
	case "d", "backspace":
		if m.cursor < len(records) {
			_ = m.ctrl.RequestDeleteMonitorRecord(records[m.cursor].ID)
			m.sync()
		}
	}
	return m, nil
}

func (m Model) predictionKeys(key string) (tea.Model, tea.Cmd) {
	preds := m.st.Cache.Predictions
	switch key {
	case "c":
		m.openForm(formPrediction)
	case "s":
		if m.cursor < len(preds) {
			p := preds[m.cursor]
			return m, m.run(formNone, func(ctx context.Context) error { return m.ctrl.SavePrediction(ctx, p) })
		}
	case "S":
		if r := m.st.Cache.CustomResult; r != nil {
			p := *r
			return m, m.run(formNone, func(ctx context.Context) error { return m.ctrl.SavePrediction(ctx, p) })
		}
	}
	return m, nil
}

func (m Model) userKeys(key string) (tea.Model, tea.Cmd) {
	if !m.st.Session.IsAdmin() {
		return m, nil
	}
	users := m.st.Cache.Users
	switch key {
	case "n":
		m.ctrl.OpenAddUser()
		m.sync()
		return m, flushModals
	case "e", "enter":
		if m.cursor < len(users) {
			m.ctrl.OpenEditUser(users[m.cursor])
			m.sync()
			return m, flushModals
		}
	case "a":
		if m.cursor < len(users) {
			id := users[m.cursor].ID
			return m, m.run(formNone, func(ctx context.Context) error { return m.ctrl.SetAdmin(ctx, id) })
		}
	case "A":
		if m.cursor < len(users) {
			id := users[m.cursor].ID
			return m, m.run(formNone, func(ctx context.Context) error { return m.ctrl.RemoveAdmin(ctx, id) })
		}
	case "d", "backspace":
		if m.cursor < len(users) {
			m.ctrl.RequestDeleteUser(users[m.cursor].ID)
			m.sync()
		}
	}
	return m, nil
}

func (m *Model) switchView(v dashboard.View) tea.Cmd {
	n := dashboard.View(len(dashboard.Views))
	v = (v%n + n) % n
	m.st.View = v
	m.cursor = 0
	m.tableOffset = 0
	return m.run(formNone, func(ctx context.Context) error { return m.ctrl.SetView(ctx, v) })
}

func (m *Model) rowCount() int {
	switch m.st.View {
	case dashboard.ViewMonitor:
		return len(m.st.Cache.MonitorRecords)
	case dashboard.ViewPrediction:
		return len(m.st.Cache.Predictions)
	case dashboard.ViewUsers:
		return len(m.st.Cache.Users)
	case dashboard.ViewStats:
		return len(m.st.Cache.RecentFires)
	default:
		return 0
	}
}

// sync takes a fresh controller snapshot and closes forms the controller closed.
func (m *Model) sync() {
	m.st = m.ctrl.State()

	if m.logs != nil {
		m.logViewport.SetContent(strings.Join(m.logs.Lines(), "\n"))
	}

	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
		if m.tableOffset > m.cursor {
			m.tableOffset = m.cursor
		}
	}

	if m.state == stateDashboard {
		return
	}
	if m.form == formRegister && !m.st.Auth.ShowRegister {
		m.openForm(formLogin)
		return
	}
	if m.form.isModal() {
		active, _, ok := m.host.Active()
		if !ok || modalForm(active) != m.form {
			m.closeForm()
		}
	}
}

func (m *Model) afterOp(msg opDoneMsg) tea.Cmd {
	if m.state != stateForm || msg.form != m.form {
		return nil
	}
	switch msg.form {
	case formLogin:
		if msg.err == nil {
			m.closeForm()
		} else {
			m.errorMsg = m.st.Auth.LoginError
			m.updateFormContent()
		}
	case formRegister:
		if msg.err != nil {
			m.errorMsg = m.st.Auth.RegisterError
			m.updateFormContent()
			return nil
		}
		m.openForm(formRegister)
		return tea.Tick(m.ctrl.RegisterNoticeTTL(), func(time.Time) tea.Msg { return registerShownMsg{} })
	case formPrediction:
		m.closeForm()
	case formThreshold:
		if msg.err == nil {
			m.closeForm()
		}
	}
	return nil
}
