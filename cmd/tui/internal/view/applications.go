package view

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

var applicationStatusFilters = []struct {
	label  string
	status *application.Status
}{
	{label: "Pending", status: new(application.StatusPending)},
	{label: "Accepted", status: new(application.StatusAccepted)},
	{label: "Rejected", status: new(application.StatusRejected)},
	{label: "All"},
}

// ApplicationsModel is the underwriting queue: decide applications and issue
// policies for accepted ones.
type ApplicationsModel struct {
	CommonModel
	appService    *application.Service
	policyService *policy.Service

	table table.Model
	apps  []*application.Application

	filterIdx int
	loading   bool
	err       error
	status    string
}

func NewApplicationsModel(appSvc *application.Service, policySvc *policy.Service) ApplicationsModel {
	return ApplicationsModel{
		appService:    appSvc,
		policyService: policySvc,
		table: newTable([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Product", Width: 22},
			{Title: "Coverage", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Created", Width: 12},
		}),
		loading: true,
	}
}

func (m ApplicationsModel) Title() string { return "Applications" }
func (m ApplicationsModel) ShortHelp() string {
	return "Esc: back | a: accept | x: reject | p: issue policy | s: status filter | r: refresh"
}

func (m ApplicationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ApplicationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadApplicationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.apps = msg.apps
		m.refreshTable()
		return m, nil

	case applicationActionMsg:
		m.status = msg.status
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filterIdx = (m.filterIdx + 1) % len(applicationStatusFilters)
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m, m.decideCmd(application.StatusAccepted)
		case "x":
			return m, m.decideCmd(application.StatusRejected)
		case "p":
			return m, m.issueCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ApplicationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading applications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(applicationStatusFilters[m.filterIdx].label))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ApplicationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, app := range m.apps {
		coverage := "-"
		if app.DesiredCoverage.Valid {
			coverage = FormatAmount(app.DesiredCoverage.Decimal)
		}

		rows = append(rows, table.Row{
			strconv.FormatInt(app.ID, 10),
			app.ProductType,
			coverage,
			string(app.Status),
			FormatDate(app.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

func (m ApplicationsModel) selected() *application.Application {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.apps) {
		return nil
	}

	return m.apps[idx]
}

// Messages

type loadApplicationsMsg struct {
	apps []*application.Application
	err  error
}

func (m ApplicationsModel) loadCmd() tea.Cmd {
	filter := application.ListFilter{Status: applicationStatusFilters[m.filterIdx].status}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apps, err := m.appService.List(ctx, filter)
		return loadApplicationsMsg{apps: apps, err: err}
	}
}

type applicationActionMsg struct {
	status string
}

func (m ApplicationsModel) decideCmd(status application.Status) tea.Cmd {
	app := m.selected()
	if app == nil {
		return nil
	}

	id := app.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.appService.Decide(ctx, id, status); err != nil {
			return applicationActionMsg{status: fmt.Sprintf("Error: %v", err)}
		}

		return applicationActionMsg{status: fmt.Sprintf("Application %d %s.", id, status)}
	}
}

func (m ApplicationsModel) issueCmd() tea.Cmd {
	app := m.selected()
	if app == nil {
		return nil
	}

	if app.Status != application.StatusAccepted {
		status := fmt.Sprintf("Application %d is %s; only accepted applications get a policy.", app.ID, app.Status)
		return func() tea.Msg { return applicationActionMsg{status: status} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.policyService.CreateFromApplication(ctx, app)
		if err != nil {
			return applicationActionMsg{status: issueError(app, err)}
		}

		return applicationActionMsg{status: fmt.Sprintf("Issued %s at %s per year.", p.Number, FormatAmount(p.AnnualPremium))}
	}
}

func issueError(app *application.Application, err error) string {
	switch {
	case errors.Is(err, premium.ErrUnsupportedProductType):
		return fmt.Sprintf("No pricing for product type %q.", app.ProductType)
	case errors.Is(err, policy.ErrAlreadyExists):
		return fmt.Sprintf("Application %d already has a policy.", app.ID)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
