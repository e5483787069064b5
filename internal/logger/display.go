package logger

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	infoColorFG  = pterm.FgLightGreen
)

// PrintMsg renders a single diagnostic the way the driver's CLI does: a
// colored tag followed by the message text, with provenance prefixed when
// available.
func PrintMsg(msg Msg) {
	text := msg.Text
	if msg.ClassName != "" {
		if msg.MethodName != "" {
			text = fmt.Sprintf("%s.%s: %s", msg.ClassName, msg.MethodName, text)
		} else {
			text = fmt.Sprintf("%s: %s", msg.ClassName, text)
		}
	}

	switch msg.Kind {
	case Error:
		errorStyleBG.Print(" ERROR ")
		errorColorFG.Println(" " + text)
	case Warning:
		warnStyleBG.Print(" WARN ")
		warnColorFG.Println(" " + text)
	}
}

// PrintSummary prints a colored one-line count of the errors and warnings
// contained in msgs, and an info banner when there were none.
func PrintSummary(msgs []Msg) {
	var errs, warns int
	for _, m := range msgs {
		if m.Kind == Error {
			errs++
		} else {
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		infoStyleBG.Print(" OK ")
		infoColorFG.Println(" emitted with no diagnostics")
		return
	}
	if errs > 0 {
		errorStyleBG.Print(" DONE ")
		errorColorFG.Println(fmt.Sprintf(" %d error(s), %d warning(s)", errs, warns))
	} else {
		warnStyleBG.Print(" DONE ")
		warnColorFG.Println(fmt.Sprintf(" %d warning(s)", warns))
	}
}
