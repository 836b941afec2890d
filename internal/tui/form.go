package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-firewatch/internal/dashboard"
	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
)

type formKind int

const (
	formNone formKind = iota
	formLogin
	formRegister
	formPrediction
	formThreshold
	formAddUser
	formEditUser
	formAddPoint
	formAddRecord
)

func (f formKind) isModal() bool {
	switch f {
	case formAddUser, formEditUser, formAddPoint, formAddRecord:
		return true
	}
	return false
}

func modalForm(m dashboard.Modal) formKind {
	switch m {
	case dashboard.ModalAddUser:
		return formAddUser
	case dashboard.ModalEditUser:
		return formEditUser
	case dashboard.ModalAddPoint:
		return formAddPoint
	case dashboard.ModalAddRecord:
		return formAddRecord
	}
	return formNone
}

type field struct {
	label string
	value string
	width int
	// secret fields echo as bullets
	secret bool
}

func (m *Model) fields(f formKind) []field {
	s := m.st.Forms
	switch f {
	case formLogin:
		return []field{
			{label: "Username", value: s.Login.Username, width: 20},
			{label: "Password", value: s.Login.Password, width: 20, secret: true},
		}
	case formRegister:
		return []field{
			{label: "Username", value: s.Register.Username, width: 20},
			{label: "Email", value: s.Register.Email, width: 30},
			{label: "Password", value: s.Register.Password, width: 20, secret: true},
			{label: "Confirm password", value: s.Register.ConfirmPassword, width: 20, secret: true},
		}
	case formPrediction:
		return []field{
			{label: "Wind speed (m/s)", value: s.Prediction.WindSpeed, width: 10},
			{label: "Temperature (°C)", value: s.Prediction.Temperature, width: 10},
			{label: "Humidity (%)", value: s.Prediction.Humidity, width: 10},
		}
	case formThreshold:
		return []field{
			{label: "Wind speed threshold (m/s)", value: s.Threshold.WindSpeed, width: 10},
			{label: "Temperature threshold (°C)", value: s.Threshold.Temperature, width: 10},
			{label: "Humidity threshold (%)", value: s.Threshold.Humidity, width: 10},
		}
	case formAddUser:
		return []field{
			{label: "Username", value: s.NewUser.Username, width: 20},
			{label: "Email", value: s.NewUser.Email, width: 30},
			{label: "Password", value: s.NewUser.Password, width: 20, secret: true},
			{label: "Role (user/admin)", value: s.NewUser.Role, width: 10},
		}
	case formEditUser:
		return []field{
			{label: "Username", value: s.EditUser.Username, width: 20},
			{label: "Email", value: s.EditUser.Email, width: 30},
			{label: "New password (blank keeps current)", value: s.EditUser.Password, width: 20, secret: true},
		}
	case formAddPoint:
		return []field{
			{label: "Name", value: s.Point.Name, width: 30},
			{label: "Latitude", value: s.Point.Latitude, width: 12},
			{label: "Longitude", value: s.Point.Longitude, width: 12},
		}
	case formAddRecord:
		return []field{
			{label: "Monitor point", value: s.Record.MonitorPointID, width: 10},
			{label: "Wind speed (m/s)", value: s.Record.WindSpeed, width: 10},
			{label: "Temperature (°C)", value: s.Record.Temperature, width: 10},
			{label: "Humidity (%)", value: s.Record.Humidity, width: 10},
		}
	}
	return nil
}

func (f formKind) title(s forms.Set) string {
	switch f {
	case formLogin:
		return "Log In"
	case formRegister:
		return "Register"
	case formPrediction:
		return "Custom Prediction"
	case formThreshold:
		return "Fire Threshold Settings"
	case formAddUser:
		return "Add User"
	case formEditUser:
		return fmt.Sprintf("Edit User #%d", s.EditUser.ID)
	case formAddPoint:
		return "Add Monitor Point"
	case formAddRecord:
		return "Add Monitor Record"
	}
	return ""
}

// openForm loads the controller's buffer for f into fresh inputs.
func (m *Model) openForm(f formKind) {
	m.state = stateForm
	m.form = f
	m.errorMsg = ""
	m.focus = 0

	fs := m.fields(f)
	m.inputs = make([]textinput.Model, len(fs))
	for i, fd := range fs {
		m.inputs[i] = ti(fd.label, fd.width)
		m.inputs[i].SetValue(fd.value)
		if fd.secret {
			m.inputs[i].EchoMode = textinput.EchoPassword
			m.inputs[i].EchoCharacter = '•'
		}
	}
	if len(m.inputs) > 0 && f != formAddRecord {
		m.inputs[0].Focus()
	}
	m.formViewport.SetYOffset(0)
	m.updateFormContent()
}

func (m *Model) closeForm() {
	m.state = stateDashboard
	m.form = formNone
	m.inputs = nil
	m.errorMsg = ""
}

func ti(ph string, width int) textinput.Model {
	t := textinput.New()
	t.Placeholder = ph
	t.Width = width
	return t
}

func (m *Model) value(i int) string {
	if i < len(m.inputs) {
		return m.inputs[i].Value()
	}
	return ""
}

// storeForm writes the inputs back into the controller's buffer.
func (m *Model) storeForm() {
	v := m.value
	switch m.form {
	case formLogin:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Login = forms.Login{Username: v(0), Password: v(1)}
		})
	case formRegister:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Register = forms.Register{Username: v(0), Email: v(1), Password: v(2), ConfirmPassword: v(3)}
		})
	case formPrediction:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Prediction = forms.Prediction{WindSpeed: v(0), Temperature: v(1), Humidity: v(2)}
		})
	case formThreshold:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Threshold = forms.Threshold{WindSpeed: v(0), Temperature: v(1), Humidity: v(2)}
		})
	case formAddUser:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.NewUser = forms.NewUser{Username: v(0), Email: v(1), Password: v(2), Role: v(3)}
		})
	case formEditUser:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.EditUser.Username = v(0)
			s.EditUser.Email = v(1)
			s.EditUser.Password = v(2)
		})
	case formAddPoint:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Point = forms.Point{Name: v(0), Latitude: v(1), Longitude: v(2)}
		})
	case formAddRecord:
		m.ctrl.EditForms(func(s *forms.Set) {
			s.Record = forms.Record{MonitorPointID: v(0), WindSpeed: v(1), Temperature: v(2), Humidity: v(3)}
		})
	}
}

func (m *Model) submit() tea.Cmd {
	m.storeForm()
	m.errorMsg = ""

	var fn func(context.Context) error
	switch m.form {
	case formLogin:
		fn = m.ctrl.Login
	case formRegister:
		fn = m.ctrl.Register
	case formPrediction:
		fn = func(ctx context.Context) error {
			m.ctrl.CalculateCustomPrediction(ctx)
			return nil
		}
	case formThreshold:
		fn = m.ctrl.UpdateThresholds
	case formAddUser:
		fn = m.ctrl.AddUser
	case formEditUser:
		fn = m.ctrl.UpdateUser
	case formAddPoint:
		fn = m.ctrl.AddMonitorPoint
	case formAddRecord:
		fn = m.ctrl.AddMonitorRecord
	default:
		return nil
	}
	return m.run(m.form, fn)
}

// dismiss closes a modal form from the keyboard and tells the coordinator.
func (m *Model) dismiss() {
	m.storeForm()
	if modal, ok := m.host.dismiss(); ok {
		m.ctrl.Modals().Dismissed(modal)
	}
	m.closeForm()
	m.sync()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg.String() {
	case "ctrl+x":
		if m.form.isModal() {
			m.dismiss()
		}
		return m, nil

	case "esc":
		if m.form.isModal() {
			// dialogs only close on esc when shown with keyboard dismissal
			if _, opts, ok := m.host.Active(); ok && opts.Keyboard {
				m.dismiss()
			}
			return m, nil
		}
		m.storeForm()
		m.closeForm()
		return m, nil

	case "ctrl+r":
		switch m.form {
		case formLogin:
			m.storeForm()
			m.ctrl.ShowRegister(true)
			m.sync()
			m.openForm(formRegister)
		case formRegister:
			m.storeForm()
			m.ctrl.ShowRegister(false)
			m.sync()
			m.openForm(formLogin)
		}
		return m, nil

	case "pgup", "pgdown":
		m.formViewport, cmd = m.formViewport.Update(msg)
		return m, cmd

	case "tab", "shift+tab", "enter", "up", "down":
		s := msg.String()

		if m.form == formAddRecord && m.focus == 0 && s == "enter" {
			m.openPointSelector()
			return m, nil
		}

		if s == "enter" && m.focus == len(m.inputs)-1 {
			return m, m.submit()
		}

		if s == "up" || s == "shift+tab" {
			m.focus--
		} else {
			m.focus++
		}
		if m.focus > len(m.inputs)-1 {
			m.focus = 0
		}
		if m.focus < 0 {
			m.focus = len(m.inputs) - 1
		}

		for i := 0; i < len(m.inputs); i++ {
			if i == m.focus && !(m.form == formAddRecord && i == 0) {
				cmds = append(cmds, m.inputs[i].Focus())
			} else {
				m.inputs[i].Blur()
			}
		}

		m.formViewport.SetYOffset(m.focus * 3)
		m.updateFormContent()
		return m, tea.Batch(cmds...)

	default:
		if m.form == formAddRecord && m.focus == 0 {
			return m, nil
		}
	}

	for i := range m.inputs {
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	m.storeForm()
	m.updateFormContent()
	return m, tea.Batch(cmds...)
}

type pointItem struct {
	id        int
	name      string
	latitude  float64
	longitude float64
}

func (i pointItem) Title() string { return i.name }
func (i pointItem) Description() string {
	return fmt.Sprintf("ID: %d | %.4f, %.4f", i.id, i.latitude, i.longitude)
}
func (i pointItem) FilterValue() string { return i.name }

func (i pointItem) idString() string { return strconv.Itoa(i.id) }

func pointItems(points []models.MonitorPoint) []list.Item {
	items := make([]list.Item, 0, len(points))
	for _, p := range points {
		items = append(items, pointItem{id: p.ID, name: p.Name, latitude: p.Latitude, longitude: p.Longitude})
	}
	return items
}

func (m *Model) openPointSelector() {
	m.state = stateSelectPoint
	m.pointList.SetItems(pointItems(m.st.Cache.MonitorPoints))
	m.pointList.SetSize(m.formViewport.Width, m.formViewport.Height)
}

func (m *Model) updateFormContent() {
	var content string
	if m.errorMsg != "" {
		content += dangerStyle.Render("Error: "+m.errorMsg) + "\n\n"
	}
	if m.form == formRegister && m.st.Auth.RegisterSuccess != "" {
		content += specialStyle.Render(m.st.Auth.RegisterSuccess) + "\n\n"
	}

	fs := m.fields(m.form)
	if len(m.inputs) < len(fs) {
		return
	}
	content += titleStyle.Render(m.form.title(m.st.Forms)) + "\n\n"
	for i, fd := range fs {
		if m.form == formAddRecord && i == 0 {
			lbl := fd.label + ":"
			val := m.inputs[0].Value()
			if val == "" {
				val = "[Enter to Select]"
			} else {
				id, _ := strconv.Atoi(val)
				val = fmt.Sprintf("%s (ID: %s) [Enter to Change]", m.st.Cache.PointName(id), val)
			}
			if m.focus == 0 {
				lbl = specialStyle.Render(lbl)
				val = specialStyle.Render(val)
			}
			content += lbl + "\n" + val + "\n\n"
			continue
		}
		content += fd.label + ":\n" + m.inputs[i].View() + "\n\n"
	}

	switch m.form {
	case formEditUser:
		content += "Role: " + m.st.Forms.EditUser.Role + "\n" + subtleStyle.Render("Roles change from the user list with [a/A]")
	case formLogin:
		content += subtleStyle.Render("[Ctrl+R] Register instead")
	case formRegister:
		content += subtleStyle.Render("[Ctrl+R] Back to login")
	}
	m.formViewport.SetContent(lipgloss.NewStyle().Padding(1, 2).Render(content))
}
