package chat

import "strings"

// Command is one parsed line of local input.  The set of variants is
// closed; see [Parse].
type Command interface {
	command()
}

type (
	// Quit ends the client in any state.
	Quit struct{}

	// Logoff closes the connection but keeps the client running.
	Logoff struct{}

	// SetHost changes the server host.  Host is empty when the argument
	// was missing.
	SetHost struct{ Host string }

	// SetPort changes the server port.  Arg is the raw argument and is
	// only parsed when the command runs.
	SetPort struct{ Arg string }

	// Login opens the connection and announces ID to the server.
	Login struct{ ID string }

	// GetHost displays the current host.
	GetHost struct{}

	// GetPort displays the current port.
	GetPort struct{}

	// Message is any line that is not a command.  Text is the line
	// exactly as typed.
	Message struct{ Text string }
)

func (Quit) command()    {}
func (Logoff) command()  {}
func (SetHost) command() {}
func (SetPort) command() {}
func (Login) command()   {}
func (GetHost) command() {}
func (GetPort) command() {}
func (Message) command() {}

// Parse classifies a line of local input.  The first whitespace
// separated token selects the command; selectors are case-sensitive and
// extra arguments are ignored.  Everything that is not a command,
// including an empty line, is a [Message].
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{Text: line}
	}

	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "#quit":
		return Quit{}
	case "#logoff":
		return Logoff{}
	case "#sethost":
		return SetHost{Host: arg}
	case "#setport":
		return SetPort{Arg: arg}
	case "#login":
		return Login{ID: arg}
	case "#gethost":
		return GetHost{}
	case "#getport":
		return GetPort{}
	default:
		return Message{Text: line}
	}
}
