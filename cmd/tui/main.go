package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lifepolicy/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	appStore "github.com/MrJamesThe3rd/lifepolicy/internal/application/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/config"
	"github.com/MrJamesThe3rd/lifepolicy/internal/database"
	"github.com/MrJamesThe3rd/lifepolicy/internal/importer"
	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/lifepolicy/internal/payment/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
	policyStore "github.com/MrJamesThe3rd/lifepolicy/internal/policy/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

type model struct {
	appService     *application.Service
	policyService  *policy.Service
	paymentService *payment.Service
	premiumService *premium.Service
	importService  *importer.Service

	currentView View

	applicationsView view.ApplicationsModel
	importView       view.ImportModel
	policiesView     view.PoliciesModel
	paymentsView     view.PaymentsModel
	quoteView        view.QuoteModel
}

type View int

const (
	ViewMenu         View = 0
	ViewApplications View = 1
	ViewImport       View = 2
	ViewPolicies     View = 3
	ViewPayments     View = 4
	ViewQuote        View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.DefaultPool)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	premiumSvc := premium.NewService(premium.DefaultRegistry())
	appSvc := application.NewService(appStore.New(db))
	policySvc := policy.NewService(policyStore.New(db), premiumSvc)
	paymentSvc := payment.NewService(paymentStore.New(db), policySvc)
	impSvc := importer.NewService(appSvc)

	return model{
		appService:     appSvc,
		policyService:  policySvc,
		paymentService: paymentSvc,
		premiumService: premiumSvc,
		importService:  impSvc,
		currentView:    ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewApplications
				m.applicationsView = view.NewApplicationsModel(m.appService, m.policyService)

				return m, m.applicationsView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewPolicies
				m.policiesView = view.NewPoliciesModel(m.policyService, m.paymentService)

				return m, m.policiesView.Init()
			case "4":
				m.currentView = ViewPayments
				m.paymentsView = view.NewPaymentsModel(m.paymentService)

				return m, m.paymentsView.Init()
			case "5":
				m.currentView = ViewQuote
				m.quoteView = view.NewQuoteModel(m.premiumService)

				return m, m.quoteView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewApplications:
		var newModel tea.Model
		newModel, cmd = m.applicationsView.Update(msg)
		m.applicationsView = newModel.(view.ApplicationsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewPolicies:
		var newModel tea.Model
		newModel, cmd = m.policiesView.Update(msg)
		m.policiesView = newModel.(view.PoliciesModel)
	case ViewPayments:
		var newModel tea.Model
		newModel, cmd = m.paymentsView.Update(msg)
		m.paymentsView = newModel.(view.PaymentsModel)
	case ViewQuote:
		var newModel tea.Model
		newModel, cmd = m.quoteView.Update(msg)
		m.quoteView = newModel.(view.QuoteModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"LifePolicy Back Office\n\n" +
				"1. Underwrite Applications\n" +
				"2. Import Applications\n" +
				"3. Policies\n" +
				"4. Payments\n" +
				"5. Premium Quote\n\n" +
				"q. Quit",
		)
	case ViewApplications:
		return m.applicationsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewPolicies:
		return m.policiesView.View()
	case ViewPayments:
		return m.paymentsView.View()
	case ViewQuote:
		return m.quoteView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
