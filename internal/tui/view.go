package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-firewatch/internal/dashboard"
	"go-firewatch/internal/models"
)

func (m Model) View() string {
	if n, ok := m.notices.Current(); ok {
		return m.viewNotice(n.Level.String(), n.Message)
	}
	if p := m.st.Pending; p != nil {
		body := titleStyle.Render("Confirm") + "\n\n" + p.Prompt + "\n\n" + subtleStyle.Render("[y] Yes  [n/Esc] No")
		return lipgloss.NewStyle().Padding(1, 2).Render(dialogStyle.Render(body))
	}

	switch m.state {
	case stateSelectPoint:
		f := subtleStyle.Render("\n[Enter] Select  [Esc] Cancel")
		return lipgloss.NewStyle().Padding(1, 2).Render(m.pointList.View()) + "\n" + f
	case stateForm:
		f := "\n[Enter] Next/Save  [PgUp/PgDn] Scroll  [Esc] Cancel"
		if m.form.isModal() {
			f = "\n[Enter] Next/Save  [PgUp/PgDn] Scroll  [Ctrl+X] Close"
		}
		return m.formViewport.View() + "\n" + subtleStyle.Render(f)
	default:
		return m.viewDashboard()
	}
}

func (m Model) viewNotice(level, msg string) string {
	style := specialStyle
	switch level {
	case "error":
		style = dangerStyle
	case "info":
		style = titleStyle
	}
	body := style.Render(strings.ToUpper(level)) + "\n\n" + msg + "\n\n" + subtleStyle.Render("[Enter] OK")
	return lipgloss.NewStyle().Padding(1, 2).Render(dialogStyle.Render(body))
}

func (m Model) viewDashboard() string {
	var renderedTabs []string
	for _, v := range dashboard.Views {
		label := fmt.Sprintf("%d %s", int(v)+1, v.Title())
		if v == m.st.View {
			renderedTabs = append(renderedTabs, activeTab.Render(label))
		} else {
			renderedTabs = append(renderedTabs, inactiveTab.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)

	status := subtleStyle.Render("not logged in [L] log in")
	if u := m.st.Session.User; m.st.Session.LoggedIn() {
		status = specialStyle.Render(fmt.Sprintf("%s (%s)", u.Username, u.Role)) + subtleStyle.Render("  [o] log out")
	}
	if m.busy > 0 {
		status = m.spinner.View() + " " + status
	}
	header += "\n" + status + "\n"

	if m.showLogs {
		footer := subtleStyle.Render("\n[↑/↓] Scroll  [Esc] Close logs")
		return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n" + m.logViewport.View() + "\n" + footer)
	}

	var content, hints string
	switch m.st.View {
	case dashboard.ViewMonitor:
		content = m.viewMonitor()
		hints = "[n] New record  [p] New point  [Enter] Detail  [d] Delete"
	case dashboard.ViewPrediction:
		content = m.viewPrediction()
		hints = "[c] Custom  [s] Save selected  [S] Save custom"
	case dashboard.ViewFireSettings:
		content = m.viewThresholds()
		hints = "[e/Enter] Edit"
	case dashboard.ViewStats:
		content = m.viewStats()
	case dashboard.ViewUsers:
		content = m.viewUsers()
		if m.st.Session.IsAdmin() {
			hints = "[n] New  [e/Enter] Edit  [a/A] Grant/Revoke admin  [d] Delete"
		}
	}

	footer := "\n" + hints
	if hints != "" {
		footer += "  "
	}
	footer += "[Tab/1-5] Switch View  [r] Reload  [Ctrl+L] Logs  [q] Quit"
	return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n" + content + "\n" + subtleStyle.Render(footer))
}

var riskStyles = []lipgloss.Style{specialStyle, warnStyle, dangerStyle, extremeStyle}

func riskStyle(r models.RiskLevel) lipgloss.Style {
	if i := r.Severity(); i >= 0 && i < len(riskStyles) {
		return riskStyles[i]
	}
	return subtleStyle
}

func (m Model) rows(n int, render func(i int) string) string {
	var content string
	end := min(m.tableOffset+m.maxTableRows, n)
	for i := m.tableOffset; i < end; i++ {
		row := render(i)
		if m.cursor == i {
			row = lipgloss.NewStyle().Bold(true).Render(">" + row)
		} else {
			row = " " + row
		}
		content += row + "\n"
	}
	return content
}

func rule() string {
	return subtleStyle.Render(strings.Repeat("-", 90)) + "\n"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func (m Model) viewMonitor() string {
	records := m.st.Cache.MonitorRecords
	content := fmt.Sprintf("\n%d monitor points\n", len(m.st.Cache.MonitorPoints))
	content += lipgloss.JoinHorizontal(lipgloss.Left,
		colID.Render("ID"), colName.Render("POINT"), colNum.Render("WIND"), colNum.Render("TEMP"), colNum.Render("HUMIDITY"), "TIME") + "\n"
	content += rule()
	if len(records) == 0 {
		return content + "\n  No monitor records."
	}
	return content + m.rows(len(records), func(i int) string {
		r := records[i]
		return lipgloss.JoinHorizontal(lipgloss.Left,
			colID.Render(strconv.Itoa(r.ID)),
			colName.Render(limitStr(r.MonitorPointName, 18)),
			colNum.Render(num(r.WindSpeed)),
			colNum.Render(num(r.Temperature)),
			colNum.Render(num(r.Humidity)),
			r.Timestamp,
		)
	})
}

func (m Model) viewPrediction() string {
	preds := m.st.Cache.Predictions
	content := "\n"
	if r := m.st.Cache.CustomResult; r != nil {
		content += titleStyle.Render("Custom prediction") + "  " +
			fmt.Sprintf("wind %s  temp %s  humidity %s  ", num(r.WindSpeed), num(r.Temperature), num(r.Humidity)) +
			riskStyle(r.RiskLevel).Render(r.RiskLevel.Text()) +
			fmt.Sprintf("  area %.2f km²", r.PredictedArea) + "\n\n"
	}
	content += lipgloss.JoinHorizontal(lipgloss.Left,
		colName.Render("POINT"), colNum.Render("WIND"), colNum.Render("TEMP"), colNum.Render("HUMIDITY"), colRisk.Render("RISK"), "AREA") + "\n"
	content += rule()
	if len(preds) == 0 {
		return content + "\n  No predictions."
	}
	return content + m.rows(len(preds), func(i int) string {
		p := preds[i]
		return lipgloss.JoinHorizontal(lipgloss.Left,
			colName.Render(limitStr(p.MonitorPointName, 18)),
			colNum.Render(num(p.WindSpeed)),
			colNum.Render(num(p.Temperature)),
			colNum.Render(num(p.Humidity)),
			colRisk.Render(riskStyle(p.RiskLevel).Render(p.RiskLevel.Text())),
			fmt.Sprintf("%.2f km²", p.PredictedArea),
		)
	})
}

func (m Model) viewThresholds() string {
	t := m.st.Forms.Threshold
	content := "\n" + titleStyle.Render("Current thresholds") + "\n\n"
	content += "Wind speed above:   " + t.WindSpeed + " m/s\n"
	content += "Temperature above:  " + t.Temperature + " °C\n"
	content += "Humidity below:     " + t.Humidity + " %\n"
	return content
}

func (m Model) viewStats() string {
	stats := m.st.Cache.RiskStats
	sum := m.st.Cache.Summary
	content := "\n" + titleStyle.Render("Summary") + "\n\n"
	content += fmt.Sprintf("Monitor points: %d   Fire records: %d   High risk last week: %d   Avg area: %.2f km²\n\n",
		sum.MonitorPointsCount, sum.TotalFireRecords, sum.HighRiskAreasLastWeek, sum.AvgFireArea)

	var parts []string
	for _, l := range models.RiskLevels {
		parts = append(parts, riskStyle(l).Render(fmt.Sprintf("%s: %d", l.Text(), stats[string(l)])))
	}
	content += strings.Join(parts, "   ") + "\n\n"

	fires := m.st.Cache.RecentFires
	content += titleStyle.Render("Recent fires") + "\n"
	content += lipgloss.JoinHorizontal(lipgloss.Left,
		colName.Render("POINT"), colRisk.Render("RISK"), colNum.Render("AREA"), "TIME") + "\n"
	content += rule()
	if len(fires) == 0 {
		return content + "\n  No recent fires."
	}
	return content + m.rows(len(fires), func(i int) string {
		f := fires[i]
		return lipgloss.JoinHorizontal(lipgloss.Left,
			colName.Render(limitStr(f.MonitorPointName, 18)),
			colRisk.Render(riskStyle(f.RiskLevel).Render(f.RiskLevel.Text())),
			colNum.Render(fmt.Sprintf("%.2f", f.PredictedArea)),
			f.Timestamp,
		)
	})
}

func (m Model) viewUsers() string {
	if !m.st.Session.IsAdmin() {
		return "\n  User management requires an administrator account."
	}
	users := m.st.Cache.Users
	content := "\n" + lipgloss.JoinHorizontal(lipgloss.Left,
		colID.Render("ID"), colName.Render("USERNAME"), colEmail.Render("EMAIL"), colNum.Render("ROLE"), colTime.Render("CREATED")) + "\n"
	content += rule()
	if len(users) == 0 {
		return content + "\n  No users."
	}
	return content + m.rows(len(users), func(i int) string {
		u := users[i]
		role := subtleStyle.Render(u.Role)
		if u.Role == models.RoleAdmin {
			role = warnStyle.Render(u.Role)
		}
		return lipgloss.JoinHorizontal(lipgloss.Left,
			colID.Render(strconv.Itoa(u.ID)),
			colName.Render(limitStr(u.Username, 18)),
			colEmail.Render(limitStr(u.Email, 24)),
			colNum.Render(role),
			colTime.Render(u.CreatedAt),
		)
	})
}

func limitStr(text string, max int) string {
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
