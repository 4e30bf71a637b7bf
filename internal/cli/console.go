package cli

import (
	"io"

	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed).FprintfFunc()
	blue   = color.New(color.FgBlue).FprintfFunc()
	yellow = color.New(color.FgYellow).FprintfFunc()
)

// errorMsg prints "[!] Error: ..." in red.
func errorMsg(w io.Writer, format string, a ...any) {
	red(w, "[!] Error: "+format+"\n", a...)
}

// infoMsg prints "[+] ..." in blue.
func infoMsg(w io.Writer, format string, a ...any) {
	blue(w, "[+] "+format+"\n", a...)
}

func warnMsg(w io.Writer, format string, a ...any) {
	yellow(w, "[-] "+format+"\n", a...)
}
