// This file implements the interactive AiOS shell using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"aios/cmd/aios/ui"
	"aios/internal/logging"
	"aios/internal/osfs"
	"aios/internal/shell"
)

const inputPlaceholder = "Type a command... (help for commands, Ctrl+C to exit)"

// shellModel is the bubbletea model for the interactive shell.
type shellModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	transcript []string
	err        error
	width      int
	height     int
	ready      bool

	// Pending y/N confirmation (pause/resume)
	pendingConfirm *shell.Confirmation

	// Session state
	sessionID string
	turnCount int
	workspace string

	// Backend
	dispatcher *shell.Dispatcher
	console    *osfs.BufferConsole
	runtime    *runtime
}

// stylesForTheme maps the configured theme name to a style set; anything
// other than an explicit "dark" or "light" falls back to terminal detection.
func stylesForTheme(theme string) ui.Styles {
	switch theme {
	case "dark":
		return ui.NewStyles(ui.DarkTheme())
	case "light":
		return ui.NewStyles(ui.LightTheme())
	default:
		return ui.DefaultStyles()
	}
}

func initShell(rt *runtime) shellModel {
	styles := stylesForTheme(rt.cfg.Shell.Theme)

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	ti.Prompt = "AiOS> "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	workspace, _ := rt.fs.Getwd()
	console := osfs.NewBufferConsole()

	return shellModel{
		textinput:  ti,
		viewport:   vp,
		styles:     styles,
		renderer:   renderer,
		workspace:  workspace,
		sessionID:  uuid.NewString(),
		console:    console,
		dispatcher: shell.NewDispatcher(rt.fs, console, rt.hal, rt.registry),
		runtime:    rt,
	}
}

func (m shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleSubmit()
		}
		m.textinput, tiCmd = m.textinput.Update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSubmit runs one input line through the dispatcher. When a command
// left a pending confirmation, the line answers that instead.
func (m shellModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" && m.pendingConfirm == nil {
		return m, nil
	}
	m.textinput.Reset()

	var result shell.Result
	wasConfirmation := m.pendingConfirm != nil
	if wasConfirmation {
		m.appendLine(m.styles.Prompt.Render("(y/N)> ") + input)
		result = m.pendingConfirm.Resolve(input)
		m.pendingConfirm = nil
	} else if input == "clear" {
		// inside the viewport a screen-clear is a transcript reset
		m.transcript = nil
		m.turnCount++
		m.viewport.SetContent("")
		return m, nil
	} else {
		m.appendLine(m.styles.Prompt.Render("AiOS> ") + m.styles.UserInput.Render(input))
		m.turnCount++
		result = m.dispatcher.Dispatch(context.Background(), input)
	}

	// special-case help so the interactive shell gets markdown rendering
	if input == "help" && !wasConfirmation && m.renderer != nil {
		m.console.Reset()
		m.appendLine(m.safeRenderMarkdown(helpMarkdown))
	} else {
		for _, line := range m.console.Lines() {
			m.appendLine(line)
		}
		m.console.Reset()
	}

	if result.Quit {
		return m, tea.Quit
	}
	if result.Confirm != nil {
		m.pendingConfirm = result.Confirm
		m.appendLine(m.styles.Warning.Render(result.Confirm.Prompt))
		m.textinput.Placeholder = "y/N"
	} else {
		m.textinput.Placeholder = inputPlaceholder
	}

	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
	return m, nil
}

func (m *shellModel) appendLine(line string) {
	m.transcript = append(m.transcript, line)
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m shellModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m shellModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	body := m.styles.Content.Render(m.viewport.View())

	if m.err != nil {
		body += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		inputArea,
		footer,
	)
}

func (m shellModel) renderHeader() string {
	title := m.styles.Header.Render(" AiOS ")
	version := m.styles.Badge.Render("v" + m.runtime.cfg.Version)
	session := m.styles.Muted.Render(fmt.Sprintf(" session %s · turn %d", m.sessionID[:8], m.turnCount))
	workspace := m.styles.Muted.Render(" " + m.workspace)

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", version, " ", session)
	if logging.IsDebugMode() {
		headerLine = lipgloss.JoinHorizontal(lipgloss.Center, headerLine, " ", m.styles.Warning.Render("debug"))
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		workspace,
		m.styles.RenderDivider(m.width),
	)
}

func (m shellModel) renderFooter() string {
	help := m.styles.Muted.Render("Enter: run · help: commands · exit or Ctrl+C: quit")
	return lipgloss.NewStyle().MarginTop(1).Render(help)
}

// helpMarkdown is the glamour-rendered version of the dispatcher help.
const helpMarkdown = `## AiOS Commands

| Command | Description |
|---------|-------------|
| help | Show this help message |
| echo [args...] | Print the arguments |
| clear | Clear the screen |
| ls [path] | List directory contents |
| cd <dir> | Change the working directory |
| pwd | Print the working directory |
| mkdir <dir> | Create a directory (with parents) |
| rm [-r] <paths...> | Remove files or directories |
| cat <files...> | Show file contents |
| register_mod <file> | Hash a module file into the blockchain |
| run_mod <name> [args...] | Verify and simulate running a module |
| verify_mod <name> | Check a module against its ledger hash |
| list_mods | List all ledger entries |
| emotion_test <text...> | Analyze the emotional context of text |
| devices | List HAL devices |
| tensor_add <a> <b> | Add two comma-separated float vectors |
| celestial_add_cloud <id> <x> <y> <z> <r> <g> <b> <a> <intensity> <shape> | Store an emotion cloud |
| celestial_get_cloud <id> | Show one emotion cloud |
| celestial_update_cloud <same args> | Replace an emotion cloud |
| celestial_remove_cloud <id> | Remove an emotion cloud |
| celestial_list_clouds | List all emotion clouds |
| celestial_add_node <id> <x> <y> <z> <ptr> [cloudIDs...] | Store a resonant node |
| celestial_get_node <id> | Show one resonant node |
| celestial_remove_node <id> | Remove a resonant node |
| celestial_list_nodes | List all resonant nodes |
| celestial_nearest <x> <y> <z> [k] | Find the k nearest clouds |
| exit | Quit AiOS |

## Tips
- **Enter** runs the command
- ` + "`rm -r`" + ` asks y/N before removing a directory
- **Ctrl+C** or **Esc** exits
`

// runInteractiveShell starts the bubbletea shell.
func runInteractiveShell() error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	p := tea.NewProgram(
		initShell(rt),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
