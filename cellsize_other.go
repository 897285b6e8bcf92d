//go:build !unix

package tuipix

// fontSizeFallback has no winsize ioctl to consult on this platform; the
// picker uses DefaultFontSize instead.
func fontSizeFallback() FontSize {
	return FontSize{}
}
