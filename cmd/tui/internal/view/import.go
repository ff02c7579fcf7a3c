package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	imported   list.Model

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
		spinner:       sp,
	}
}

func (m ImportModel) Title() string { return "Import Applications" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: import another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateResult {
			var cmd tea.Cmd
			m.imported, cmd = m.imported.Update(msg)

			return m, cmd
		}

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d applications (%s format).", len(msg.result.Applications), msg.result.Profile)

		items := make([]list.Item, len(msg.result.Applications))
		for i, app := range msg.result.Applications {
			items[i] = applicationItem{app: app}
		}

		m.imported = list.New(items, applicationDelegate{}, 80, 20)
		m.imported.Title = "Imported Applications"
		m.imported.SetShowStatusBar(false)
		m.imported.SetFilteringEnabled(false)
		m.imported.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a broker or portal CSV export:\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle(m.status) + "\n\n" + m.imported.View() + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// Imported application list item

type applicationItem struct {
	app *application.Application
}

func (i applicationItem) Title() string       { return i.app.ProductType }
func (i applicationItem) Description() string { return i.app.OwnerID.String() }
func (i applicationItem) FilterValue() string { return i.app.ProductType }

type applicationDelegate struct{}

func (d applicationDelegate) Height() int                             { return 2 }
func (d applicationDelegate) Spacing() int                            { return 0 }
func (d applicationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d applicationDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(applicationItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	coverage := "-"
	if item.app.DesiredCoverage.Valid {
		coverage = FormatAmount(item.app.DesiredCoverage.Decimal)
	}

	fmt.Fprintf(w, "%s#%d  %s  %s\n      Owner: %s\n",
		cursor,
		item.app.ID,
		item.app.ProductType,
		coverage,
		item.app.OwnerID,
	)
}
