package tuipix

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// termCaps is what a capability round-trip can learn from the terminal.
type termCaps struct {
	kitty bool
	sixel bool
	font  FontSize
}

// queryCapabilities writes one combined burst of control sequences and
// parses the replies incrementally:
//
//	_Gi=31,...,a=q  kitty graphics probe
//	[c              primary device attributes (sixel flag)
//	[16t            character cell size in pixels
//	[1337n          iTerm2 proprietary report (ignored; env decides iTerm2)
//	[5n             device status report, answered by every terminal, so
//	                the read loop has a guaranteed terminator
//
// The exchange is bounded by timeout; on timeout or any read error the
// caller falls back to environment-based detection.
func queryCapabilities(isTmux bool, timeout time.Duration) (termCaps, error) {
	var caps termCaps

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return caps, errors.New("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return caps, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState) //nolint:errcheck

	start, esc, end := tmuxEscapes(isTmux)
	query := fmt.Sprintf(
		"%s%s_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA%s\\%s[c%s[16t%s[1337n%s[5n%s",
		start, esc, esc, esc, esc, esc, esc, end)
	if _, err := os.Stdout.WriteString(query); err != nil {
		return caps, fmt.Errorf("failed to send capability query: %w", err)
	}

	return awaitReplies(os.Stdin, timeout)
}

// awaitReplies feeds the reply stream through the parser until the
// status terminator arrives or the timeout fires. On timeout the reader
// goroutine is unblocked with a read deadline so it cannot linger and
// swallow the bytes the host's event loop reads after the probe; when
// the file does not support deadlines the reader stays parked until the
// next read completes.
func awaitReplies(f *os.File, timeout time.Duration) (termCaps, error) {
	var caps termCaps

	resCh := make(chan termCaps, 1)
	errCh := make(chan error, 1)
	go func() {
		var parser capParser
		var got termCaps
		buf := make([]byte, 64)
		for {
			n, err := f.Read(buf)
			if err != nil {
				errCh <- err
				return
			}
			for _, b := range buf[:n] {
				ev, ok := parser.push(b)
				if !ok {
					continue
				}
				switch ev.kind {
				case capKitty:
					got.kitty = got.kitty || ev.ok
				case capSixel:
					got.sixel = got.sixel || ev.ok
				case capCellSize:
					if ev.ok {
						got.font = ev.font
					}
				case capStatus:
					resCh <- got
					return
				}
			}
		}
	}()

	select {
	case got := <-resCh:
		return got, nil
	case err := <-errCh:
		return caps, fmt.Errorf("failed to read capability reply: %w", err)
	case <-time.After(timeout):
		if f.SetReadDeadline(time.Now()) == nil {
			// Join the reader, then clear the deadline for the host.
			select {
			case <-resCh:
			case <-errCh:
			}
			_ = f.SetReadDeadline(time.Time{})
		}
		return caps, errors.New("timed out waiting for capability reply")
	}
}

type capKind int

const (
	capUnknown capKind = iota
	capKitty
	capSixel
	capCellSize
	capStatus
)

// capEvent is one recognized terminal reply.
type capEvent struct {
	kind capKind
	ok   bool
	font FontSize
}

// capParser is a byte-fed state machine over the reply stream. Terminals
// answer the burst in arbitrary order, possibly interleaved with garbage,
// so each sequence is identified from its prefix and unknown sequences are
// skipped at the next ESC.
type capParser struct {
	data string
	seq  capKind
}

// push feeds one byte; the second return is true when a reply completed.
func (p *capParser) push(next byte) (capEvent, bool) {
	switch p.seq {
	case capKitty:
		// The kitty reply body contains an ESC before the closing
		// backslash, so no restart-on-ESC here.
		if next == '\\' {
			ok := p.data == "_Gi=31;OK\x1b"
			p.reset()
			return capEvent{kind: capKitty, ok: ok}, true
		}
		p.data += string(next)

	case capSixel:
		switch next {
		case 'c':
			// DA1 lists capability 4 for sixel support.
			ok := strings.Contains(p.data, ";4;") ||
				strings.Contains(p.data, "?4;") ||
				strings.HasSuffix(p.data, ";4") ||
				strings.HasSuffix(p.data, "?4")
			p.reset()
			return capEvent{kind: capSixel, ok: ok}, true
		case 0x1b:
			p.reset()
		default:
			p.data += string(next)
		}

	case capCellSize:
		switch next {
		case 't':
			ev := capEvent{kind: capCellSize}
			// Reply shape: [6;<height>;<width>t
			if parts := strings.Split(p.data, ";"); len(parts) == 3 {
				h, errH := strconv.Atoi(parts[1])
				w, errW := strconv.Atoi(parts[2])
				if errH == nil && errW == nil && w > 0 && h > 0 {
					ev.ok = true
					ev.font = FontSize{Width: w, Height: h}
				}
			}
			p.reset()
			return ev, true
		case 0x1b:
			p.reset()
		default:
			p.data += string(next)
		}

	case capStatus:
		switch next {
		case 'n':
			p.reset()
			return capEvent{kind: capStatus}, true
		case 0x1b:
			p.reset()
		default:
			p.data += string(next)
		}

	default:
		if next == 0x1b {
			p.reset()
			return capEvent{}, false
		}
		switch {
		case p.data == "[" && next == '?':
			p.seq = capSixel
		case p.data == "_Gi=31" && next == ';':
			p.seq = capKitty
		case p.data == "[6" && next == ';':
			p.seq = capCellSize
		case p.data == "[" && next == '0':
			p.seq = capStatus
		}
		p.data += string(next)
	}
	return capEvent{}, false
}

func (p *capParser) reset() {
	p.data = ""
	p.seq = capUnknown
}
