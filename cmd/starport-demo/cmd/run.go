package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/go-drift/starport/cmd/starport-demo/internal/scene"
)

const frameInterval = 16 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var (
	runDebugAddr string
	runLogFile   string
)

func init() {
	runCmd.Flags().StringVar(&runDebugAddr, "debug-addr", "", "Serve the debug endpoints on this address (overrides debug.addr)")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Append logs to this file; logs are discarded otherwise")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive demo",
	Long: `Run the demo in the terminal.

Keys:
  left, right   move the badge to the previous or next slot
  1, 2, 3       move the badge to a slot
  space, enter  tap the badge
  q             quit

With --debug-addr (or debug.addr in the config) an HTTP server exposes
/health, /render-tree, /widget-tree, /frames, /ports and /metrics.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	var logOut io.Writer = io.Discard
	if runLogFile != "" {
		f, err := os.OpenFile(runLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	setLogger(logOut)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	s := scene.New(scene.Config{
		Size:       surfaceSize(),
		Flight:     resolved.Flight,
		Logger:     logger,
		Registerer: reg,
		FrameTrace: 240,
	})
	defer s.Dispose()

	addr := runDebugAddr
	if addr == "" {
		addr = resolved.DebugAddr
	}
	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: s.DebugHandler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", addr).Msg("debug server stopped")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		logger.Info().Str("addr", addr).Msg("debug server listening")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := tea.NewProgram(newModel(s), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

type frameMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type model struct {
	scene *scene.Scene
	grid  *scene.Grid
	err   error
}

func newModel(s *scene.Scene) *model {
	return &model{scene: s}
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.err = m.scene.Prev()
		case "right", "l", "tab":
			m.err = m.scene.Next()
		case "1", "2", "3":
			m.err = m.scene.MoveTo(int(key[0] - '1'))
		case " ", "enter":
			m.err = m.scene.TapBadge()
		}
		return m, nil

	case frameMsg:
		if m.grid == nil || m.scene.NeedsFrame() {
			m.frame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) frame() {
	snap, err := m.scene.Frame()
	if err != nil {
		logger.Error().Err(err).Msg("frame failed")
		m.err = err
	}
	if snap != nil {
		m.grid = scene.Rasterize(snap.Commands, snap.Size)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("starport demo"))
	b.WriteString("\n\n")
	if m.grid != nil {
		b.WriteString(m.grid.Render())
		b.WriteString("\n\n")
	}
	b.WriteString(statusStyle.Render(m.status()))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ move • 1-3 pick a slot • space tap • q quit"))
	return b.String()
}

func (m *model) status() string {
	ports := m.scene.Ports()
	if len(ports) == 0 {
		return fmt.Sprintf("slot %d • no instance", m.scene.Slot()+1)
	}
	p := ports[0]
	active := p.Active
	if len(active) > 8 {
		active = active[:8]
	}
	return fmt.Sprintf("slot %d • port %s • refs %d • active %s", m.scene.Slot()+1, p.Port, p.RefCount, active)
}
