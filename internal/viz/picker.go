package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/framesim/internal/config"
)

// Choice is one domain preset offered by the Picker.
type Choice struct {
	Domain string
	Preset string
}

func (c Choice) String() string { return c.Domain + "/" + c.Preset }

var descriptions = map[string]string{
	"life":  "toroidal conway grid",
	"nbody": "softened gravity, splats",
}

// Picker is a menu over every domain preset. After the program exits,
// Chosen reports the selection.
type Picker struct {
	choices []Choice
	cursor  int
	chosen  bool
}

func NewPicker(domains []string) *Picker {
	p := &Picker{}
	for _, d := range domains {
		for _, name := range config.ListPresets(d) {
			p.choices = append(p.choices, Choice{Domain: d, Preset: name})
		}
	}
	return p
}

// Chosen returns the selected preset, or false when the user quit.
func (p *Picker) Chosen() (Choice, bool) {
	if !p.chosen || len(p.choices) == 0 {
		return Choice{}, false
	}
	return p.choices[p.cursor], true
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.choices) > 0 {
			p.chosen = true
			return p, tea.Quit
		}
	}
	return p, nil
}

var (
	pickTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("FRAMESIM") + "\n    " + pickSub.Render("frame-stepped simulations") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, c := range p.choices {
		name := fmt.Sprintf("%-16s", c.String())
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickCursor.Render("▸"), pickSelected.Render(name), pickDesc.Render(descriptions[c.Domain])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickIdle.Render("  "+name), pickIdle.Render(descriptions[c.Domain])))
		}
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickSub.Render(" navigate  ") + pickKey.Render("enter") + pickSub.Render(" select  ") + pickKey.Render("q") + pickSub.Render(" quit") + "\n")
	return b.String()
}

// Pick runs the picker and returns the selection.
func Pick(domains []string) (Choice, bool, error) {
	p := NewPicker(domains)
	if _, err := tea.NewProgram(p, tea.WithAltScreen()).Run(); err != nil {
		return Choice{}, false, err
	}
	c, ok := p.Chosen()
	return c, ok, nil
}
