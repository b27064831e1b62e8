package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/branch-engine/internal/handlers"
	"github.com/jwebster45206/branch-engine/internal/storage"
	"github.com/jwebster45206/branch-engine/pkg/engine"
	"github.com/jwebster45206/branch-engine/pkg/game"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	runID         uuid.UUID
	snapshot      *engine.Snapshot
	storyViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool
	notice        string // transient hint, e.g. "run id copied"

	// Game selection state
	showGameModal bool
	games         []storage.GameSummary
	selectedGame  int
	loadingGames  bool

	// Quit confirmation state
	showQuitModal bool
}

type gamesLoadedMsg struct {
	games []storage.GameSummary
	err   error
}

type runCreatedMsg struct {
	resp *handlers.RunResponse
	err  error
}

type snapshotMsg struct {
	resp *handlers.RunResponse
	err  error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	choiceKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	riskSafeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // green

	riskRiskyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	riskChaoticStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")) // red

	endingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		ready:         false,
		showGameModal: true,
		loadingGames:  true,
		selectedGame:  0,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadGamesCmd()
}

func (m ConsoleUI) loadGamesCmd() tea.Cmd {
	return func() tea.Msg {
		games, err := listGames(m.client, m.config.APIBaseURL)
		return gamesLoadedMsg{games: games, err: err}
	}
}

func (m ConsoleUI) createRunCmd(gameID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := createRun(m.client, m.config.APIBaseURL, gameID)
		return runCreatedMsg{resp: resp, err: err}
	}
}

func (m ConsoleUI) applyChoiceCmd(choiceID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := applyChoice(m.client, m.config.APIBaseURL, m.runID, choiceID)
		return snapshotMsg{resp: resp, err: err}
	}
}

func (m ConsoleUI) resetRunCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := resetRun(m.client, m.config.APIBaseURL, m.runID)
		return snapshotMsg{resp: resp, err: err}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewports()
		m.ready = true
		m.refreshContent()
		return m, nil

	case gamesLoadedMsg:
		m.loadingGames = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.games = msg.games
		return m, nil

	case runCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.runID = msg.resp.RunID
		m.snapshot = msg.resp.Snapshot
		m.showGameModal = false
		m.refreshContent()
		return m, nil

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.resp.Snapshot
		m.refreshContent()
		m.storyViewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.storyViewport, cmd = m.storyViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		switch msg.String() {
		case "y", "Y", "enter":
			return m, tea.Quit
		case "n", "N", "esc":
			m.showQuitModal = false
			return m, nil
		}
		return m, nil
	}

	if m.showGameModal {
		return m.handleGameModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.showQuitModal = true
		return m, nil

	case "r":
		if m.runID != uuid.Nil && !m.loading {
			m.loading = true
			m.notice = ""
			return m, m.resetRunCmd()
		}

	case "c":
		if m.runID != uuid.Nil {
			if err := clipboard.WriteAll(m.runID.String()); err != nil {
				m.notice = "clipboard unavailable"
			} else {
				m.notice = "run id copied"
			}
			m.refreshContent()
		}
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.storyViewport, cmd = m.storyViewport.Update(msg)
		return m, cmd

	default:
		// Number keys pick choices off the current snapshot.
		if m.snapshot != nil && m.snapshot.Scene != nil && !m.snapshot.GameOver && !m.loading {
			key := msg.String()
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				idx := int(key[0] - '1')
				if idx < len(m.snapshot.Scene.Choices) {
					m.loading = true
					m.notice = ""
					return m, m.applyChoiceCmd(m.snapshot.Scene.Choices[idx].ID)
				}
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) handleGameModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.selectedGame > 0 {
			m.selectedGame--
		}
	case "down", "j":
		if m.selectedGame < len(m.games)-1 {
			m.selectedGame++
		}
	case "enter":
		if len(m.games) > 0 && !m.loading {
			m.loading = true
			return m, m.createRunCmd(m.games[m.selectedGame].ID)
		}
	}
	return m, nil
}

func (m *ConsoleUI) layoutViewports() {
	metaWidth := m.width / 4
	if metaWidth < 24 {
		metaWidth = 24
	}
	storyWidth := m.width - metaWidth

	m.storyViewport.Width = storyWidth
	m.storyViewport.Height = m.height - 3
	m.metaViewport.Width = metaWidth
	m.metaViewport.Height = m.height - 3
}

func (m *ConsoleUI) refreshContent() {
	if !m.ready {
		return
	}
	m.storyViewport.SetContent(m.writeStoryContent())
	m.metaViewport.SetContent(m.writeMetadata())
}

// writeStoryContent renders the current scene, its choices, and the
// result of the previous choice.
func (m *ConsoleUI) writeStoryContent() string {
	storyWidth := m.storyViewport.Width - 6 // Account for left(3) + right(3) padding
	if storyWidth < 20 {
		storyWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("BRANCH ENGINE") + "\n\n")

	if m.snapshot == nil {
		content.WriteString("Pick a game to begin.\n")
		return content.String()
	}

	snap := m.snapshot

	if snap.LastChoice != nil && snap.LastChoice.ResultText != "" {
		content.WriteString(resultStyle.Render(wordwrap.String(snap.LastChoice.ResultText, storyWidth)) + "\n\n")
		content.WriteString(separatorStyle.Render(strings.Repeat("─", storyWidth)) + "\n\n")
	}

	if snap.Scene == nil {
		content.WriteString(errorStyle.Render("The story lost its place. Reset with 'r'.") + "\n")
		return content.String()
	}

	content.WriteString(sceneTitleStyle.Render(snap.Scene.Title) + "\n\n")
	content.WriteString(bodyStyle.Render(wordwrap.String(snap.Scene.Body, storyWidth)) + "\n\n")

	if snap.GameOver {
		tag := snap.EndingTag
		if tag == "" {
			tag = "the end"
		}
		content.WriteString(endingStyle.Render(fmt.Sprintf("— %s —", strings.ToUpper(tag))) + "\n\n")
		content.WriteString("Final score: " + fmt.Sprintf("%d", snap.State.Score) + "\n")
		content.WriteString("Press 'r' to play again, 'q' to quit.\n")
		return content.String()
	}

	for i, choice := range snap.Scene.Choices {
		key := choiceKeyStyle.Render(fmt.Sprintf("[%d]", i+1))
		badge := m.riskBadge(choice.RiskLevel)
		line := fmt.Sprintf("%s %s %s", key, badge, choice.Label)
		content.WriteString(wordwrap.String(line, storyWidth) + "\n")
	}

	if m.loading {
		content.WriteString("\n" + loadingStyle.Render("...") + "\n")
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	return content.String()
}

// riskBadge renders a choice's risk level, preferring the game's own
// risk legend over a generic label.
func (m *ConsoleUI) riskBadge(risk game.RiskLevel) string {
	label := titleCaser.String(string(risk))
	if m.snapshot != nil {
		if legend := m.snapshot.Metadata.RiskLegend(); legend != nil {
			if text, ok := legend[string(risk)]; ok {
				label = text
			}
		}
	}

	switch risk {
	case game.RiskSafe:
		return riskSafeStyle.Render(label)
	case game.RiskChaotic:
		return riskChaoticStyle.Render(label)
	default:
		return riskRiskyStyle.Render(label)
	}
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("RUN STATE") + "\n\n")

	if m.snapshot == nil {
		content.WriteString("No run yet.\n")
		return content.String()
	}

	st := m.snapshot.State

	content.WriteString("Run ID:\n")
	content.WriteString(m.runID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("Score: %d\n\n", st.Score))

	if len(st.Stats) > 0 {
		content.WriteString("Stats:\n")
		for _, name := range sortedStatNames(st.Stats) {
			content.WriteString(fmt.Sprintf("• %s: %d\n", name, st.Stats[name]))
		}
		content.WriteString("\n")
	}

	if len(st.Inventory) > 0 {
		content.WriteString("Inventory:\n")
		for _, loot := range st.Inventory {
			name, _ := loot["name"].(string)
			if name == "" {
				name = "(unnamed)"
			}
			content.WriteString("• " + name + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("Moves: %d\n\n", len(st.History)))

	if m.notice != "" {
		content.WriteString(loadingStyle.Render(m.notice) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• 1-9: Choose\n")
	content.WriteString("• r: Restart run\n")
	content.WriteString("• c: Copy run id\n")
	content.WriteString("• q: Quit\n")

	return content.String()
}

func sortedStatNames(stats map[string]int) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showGameModal {
		return m.renderGameModal()
	}

	story := storyPanelStyle.Render(m.storyViewport.View())
	meta := metaPanelStyle.Render(m.metaViewport.View())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, story, meta)

	help := separatorStyle.Render(" 1-9 choose · r restart · c copy id · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, panels, help)
}

func (m ConsoleUI) renderGameModal() string {
	var body strings.Builder
	body.WriteString(modalTitleStyle.Render("SELECT A GAME") + "\n\n")

	switch {
	case m.loadingGames:
		body.WriteString(loadingStyle.Render("Loading games...") + "\n")
	case m.err != nil:
		body.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	case len(m.games) == 0:
		body.WriteString("No games available.\nUpload one via POST /v1/games.\n")
	default:
		for i, g := range m.games {
			line := fmt.Sprintf("%s (%s, %d scenes)", g.Title, g.Mode, g.SceneCount)
			if i == m.selectedGame {
				body.WriteString(modalSelectedItemStyle.Render("> "+line) + "\n")
			} else {
				body.WriteString(modalItemStyle.Render("  "+line) + "\n")
			}
		}
		if m.loading {
			body.WriteString("\n" + loadingStyle.Render("Starting run...") + "\n")
		}
	}

	body.WriteString("\n" + separatorStyle.Render("↑/↓ select · enter start · q quit"))

	modal := modalStyle.Render(body.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m ConsoleUI) renderQuitModal() string {
	body := modalTitleStyle.Render("QUIT?") + "\n\n" +
		modalItemStyle.Render("Leave the story where it stands?") + "\n\n" +
		separatorStyle.Render("y quit · n stay")
	modal := modalStyle.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
