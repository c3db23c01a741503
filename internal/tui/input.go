package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/semplan/internal/command"
	"github.com/christopherklint97/semplan/internal/planner"
)

// filterModel edits the tag filter applied to the week table.
type filterModel struct {
	input textinput.Model
}

func newFilterModel() filterModel {
	ti := textinput.New()
	ti.Placeholder = "tags, space or comma separated"
	ti.Prompt = "filter: "
	ti.CharLimit = 200
	ti.Width = 40
	return filterModel{input: ti}
}

func (m filterModel) Update(msg tea.Msg) (filterModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m filterModel) View() string {
	return m.input.View()
}

// Tags is the parsed filter.
func (m filterModel) Tags() []string {
	return planner.NewTags(command.ParseTags(m.input.Value())...)
}
