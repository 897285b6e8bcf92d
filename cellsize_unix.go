//go:build unix

package tuipix

import (
	"os"

	"golang.org/x/sys/unix"
)

// fontSizeFallback derives the cell pixel size from the kernel's window
// size report when the terminal did not answer the CSI 16 t query. Returns
// a zero FontSize when the ioctl carries no pixel information.
func fontSizeFallback() FontSize {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return FontSize{}
	}
	return FontSize{
		Width:  int(ws.Xpixel) / int(ws.Col),
		Height: int(ws.Ypixel) / int(ws.Row),
	}
}
