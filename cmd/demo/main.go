// Command demo displays an image file in the terminal, picking the best
// supported graphics protocol. Keys: i cycles the protocol, f toggles the
// fit policy, q quits.
package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tuipix/tuipix"
)

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("235")).
	Background(lipgloss.Color("114")).
	Padding(0, 1)

type tickMsg struct{}

type model struct {
	picker  *tuipix.Picker
	src     image.Image
	img     *tuipix.ThreadedImage
	area    tuipix.Rect
	frame   *tuipix.Frame
	pending bool
	fit     tuipix.FitMode
}

func newModel(src image.Image) model {
	picker := tuipix.QueryPicker()
	return model{
		picker: picker,
		src:    src,
		img:    picker.NewThreadedImage(src),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Bottom row is the status bar.
		m.area = tuipix.NewRect(0, 0, msg.Width, msg.Height-1)
		return m.redraw()

	case tickMsg:
		return m.redraw()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			os.Stdout.WriteString(m.img.Close())
			return m, tea.Quit
		case "i":
			os.Stdout.WriteString(m.img.Close())
			m.picker.SetProtocol(m.picker.Protocol().Next())
			m.img = m.picker.NewThreadedImage(m.src)
			m.img.SetFit(m.fit)
			m.frame = nil
			return m.redraw()
		case "f":
			if m.fit == tuipix.FitScale {
				m.fit = tuipix.FitCrop
			} else {
				m.fit = tuipix.FitScale
			}
			m.img.SetFit(m.fit)
			return m.redraw()
		}
	}
	return m, nil
}

// redraw asks for a frame and, for direct protocols, writes the payload
// straight to the terminal behind bubbletea's back. While an encode is
// still in flight it polls until the fresh frame lands.
func (m model) redraw() (tea.Model, tea.Cmd) {
	frame, pending := m.img.Render(m.area)
	if frame != nil && frame != m.frame && frame.Direct() {
		os.Stdout.WriteString(frame.Payload)
	}
	m.frame = frame
	m.pending = pending
	if pending {
		return m, tea.Tick(30*time.Millisecond, func(time.Time) tea.Msg {
			return tickMsg{}
		})
	}
	return m, nil
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("%s | fit: %s | i: protocol  f: fit  q: quit",
		m.picker.Protocol(), m.fit))
	if m.pending {
		status += " rendering..."
	}

	body := ""
	if m.frame != nil {
		if m.frame.Direct() {
			// Reserve the cells; the pixels were written directly.
			body = m.frame.Placeholder()
		} else {
			body = m.frame.ANSI()
		}
	}
	return body + "\n" + status
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <image-file>\n", os.Args[0])
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	src, _, err := image.Decode(f)
	f.Close() //nolint:errcheck
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(src), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
