package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
)

type PaymentsModel struct {
	CommonModel
	paymentService *payment.Service

	table    table.Model
	payments []*payment.Payment

	loading bool
	err     error
	status  string
}

func NewPaymentsModel(paymentSvc *payment.Service) PaymentsModel {
	return PaymentsModel{
		paymentService: paymentSvc,
		table: newTable([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Policy", Width: 8},
			{Title: "Due", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Status", Width: 8},
			{Title: "Paid", Width: 12},
		}),
		loading: true,
	}
}

func (m PaymentsModel) Title() string     { return "Payments" }
func (m PaymentsModel) ShortHelp() string { return "Esc: back | p: mark paid | r: refresh" }

func (m PaymentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPaymentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.payments = msg.payments
		m.refreshTable()
		return m, nil

	case payMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Payment %d marked paid.", msg.id)
		}
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
		case "p":
			return m, m.payCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PaymentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading payments...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PaymentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.payments))
	for _, p := range m.payments {
		paid := ""
		if p.PaidAt != nil {
			paid = FormatDate(*p.PaidAt)
		}

		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.PolicyID, 10),
			FormatDate(p.DueDate),
			FormatAmount(p.Amount),
			string(p.Status),
			paid,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadPaymentsMsg struct {
	payments []*payment.Payment
	err      error
}

func (m PaymentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payments, err := m.paymentService.List(ctx)
		return loadPaymentsMsg{payments: payments, err: err}
	}
}

type payMsg struct {
	id  int64
	err error
}

func (m PaymentsModel) payCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.payments) {
		return nil
	}

	id := m.payments[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.paymentService.Pay(ctx, id)
		return payMsg{id: id, err: err}
	}
}
