package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

// QuoteModel prices a product type and coverage without storing anything.
type QuoteModel struct {
	CommonModel
	premiumService *premium.Service

	form *huh.Form

	productType string
	coverage    string

	result string
	err    error
}

func NewQuoteModel(premiumSvc *premium.Service) QuoteModel {
	m := QuoteModel{premiumService: premiumSvc}
	m.form = m.newForm()

	return m
}

func (m QuoteModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("product_type").
				Title("Product type").
				Placeholder("Term Life, Whole Life, Universal Life...").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("product type cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("coverage").
				Title("Desired coverage").
				Placeholder("250000").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return errors.New("not a number")
					}
					if d.IsNegative() {
						return errors.New("coverage cannot be negative")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m QuoteModel) Title() string     { return "Premium Quote" }
func (m QuoteModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m QuoteModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m QuoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			if m.form.State == huh.StateCompleted {
				m.result, m.err = "", nil
				m.form = m.newForm()
				return m, m.form.Init()
			}
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && m.result == "" && m.err == nil {
		m.productType = m.form.GetString("product_type")
		m.coverage = m.form.GetString("coverage")
		m.result, m.err = quote(m.premiumService, m.productType, m.coverage)
	}

	return m, cmd
}

func quote(svc *premium.Service, productType, rawCoverage string) (string, error) {
	coverage, err := decimal.NewFromString(strings.TrimSpace(rawCoverage))
	if err != nil {
		return "", err
	}

	amount, err := svc.Quote(productType, coverage)
	if err != nil {
		return "", err
	}

	strategy, _ := premium.Classify(productType)

	return fmt.Sprintf("%s via %s: %s per year", productType, strategy, FormatAmount(amount)), nil
}

func (m QuoteModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.form.State != huh.StateCompleted {
		return style.Render(m.form.View())
	}

	if m.err != nil {
		var unsupported *premium.UnsupportedProductTypeError
		if errors.As(m.err, &unsupported) {
			return style.Render(errorStyle(fmt.Sprintf("No pricing for product type %q.", unsupported.ProductType)) +
				"\n\n(n: new quote | Esc: back)")
		}

		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(n: new quote | Esc: back)")
	}

	return style.Render(successStyle(m.result) + "\n\n(n: new quote | Esc: back)")
}
