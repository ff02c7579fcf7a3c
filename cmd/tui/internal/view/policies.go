package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
)

type policiesState int

const (
	policiesStateBrowse policiesState = iota
	policiesStateConfirm
)

var policyStatusFilters = []struct {
	label  string
	status *policy.Status
}{
	{label: "All"},
	{label: "Active", status: new(policy.StatusActive)},
	{label: "Cancelled", status: new(policy.StatusCancelled)},
	{label: "Expired", status: new(policy.StatusExpired)},
}

type PoliciesModel struct {
	CommonModel
	policyService  *policy.Service
	paymentService *payment.Service

	state    policiesState
	table    table.Model
	policies []*policy.Policy
	form     *huh.Form
	confirm  bool

	filterIdx int
	loading   bool
	err       error
	status    string
}

func NewPoliciesModel(policySvc *policy.Service, paymentSvc *payment.Service) PoliciesModel {
	return PoliciesModel{
		policyService:  policySvc,
		paymentService: paymentSvc,
		table: newTable([]table.Column{
			{Title: "Number", Width: 18},
			{Title: "Status", Width: 10},
			{Title: "Premium", Width: 12},
			{Title: "Start", Width: 12},
			{Title: "Owner", Width: 36},
		}),
		loading: true,
	}
}

func (m PoliciesModel) Title() string { return "Policies" }
func (m PoliciesModel) ShortHelp() string {
	if m.state == policiesStateConfirm {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | c: cancel policy | s: status filter | r: refresh"
}

func (m PoliciesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PoliciesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPoliciesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.policies = msg.policies
		m.refreshTable()
		return m, nil

	case cancelPolicyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error cancelling: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Cancelled %s, voided %d due payments.", msg.number, msg.voided)
		}
		m.state = policiesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case policiesStateBrowse:
		return m.updateBrowse(msg)
	case policiesStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m PoliciesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filterIdx = (m.filterIdx + 1) % len(policyStatusFilters)
			m.loading = true
			return m, m.loadCmd()
		case "c":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PoliciesModel) selected() *policy.Policy {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.policies) {
		return nil
	}

	return m.policies[idx]
}

func (m PoliciesModel) enterConfirm() (tea.Model, tea.Cmd) {
	p := m.selected()
	if p == nil {
		return m, nil
	}

	if p.Status != policy.StatusActive {
		m.status = fmt.Sprintf("%s is %s and cannot be cancelled.", p.Number, p.Status)
		return m, nil
	}

	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Cancel %s?", p.Number)).
				Description("Due payments will be marked unused.").
				Affirmative("Cancel policy").
				Negative("Keep").
				Value(&m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = policiesStateConfirm
	m.table.Blur()
	return m, m.form.Init()
}

func (m PoliciesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = policiesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		m.state = policiesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	return m, m.cancelCmd()
}

func (m PoliciesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading policies...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(policyStatusFilters[m.filterIdx].label))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == policiesStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PoliciesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.policies))
	for _, p := range m.policies {
		rows = append(rows, table.Row{
			p.Number,
			string(p.Status),
			FormatAmount(p.AnnualPremium),
			FormatDate(p.StartDate),
			p.OwnerID.String(),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadPoliciesMsg struct {
	policies []*policy.Policy
	err      error
}

func (m PoliciesModel) loadCmd() tea.Cmd {
	status := policyStatusFilters[m.filterIdx].status

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			policies []*policy.Policy
			err      error
		)

		if status != nil {
			policies, err = m.policyService.ListByStatus(ctx, *status)
		} else {
			policies, err = m.policyService.List(ctx)
		}

		return loadPoliciesMsg{policies: policies, err: err}
	}
}

type cancelPolicyMsg struct {
	number string
	voided int
	err    error
}

func (m PoliciesModel) cancelCmd() tea.Cmd {
	p := m.selected()
	if p == nil {
		return nil
	}

	id := p.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cancelled, err := m.policyService.Cancel(ctx, id)
		if err != nil {
			return cancelPolicyMsg{err: err}
		}

		voided, err := m.paymentService.RemoveUnusedSchedules(ctx, cancelled.ID)

		return cancelPolicyMsg{number: cancelled.Number, voided: voided, err: err}
	}
}
