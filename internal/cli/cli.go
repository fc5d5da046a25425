package cli

import (
	"fmt"
	"strings"
)

type Command string

const (
	CommandLaunch  Command = "launch"
	CommandResolve Command = "resolve"
	CommandInstall Command = "install"
	CommandStatus  Command = "status"
	CommandHistory Command = "history"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandLaunch:  {},
	CommandResolve: {},
	CommandInstall: {},
	CommandStatus:  {},
	CommandHistory: {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

// commandFlags names the flags each command accepts beyond --config.
var commandFlags = map[Command]map[string]struct{}{
	CommandResolve: {"--os": {}, "--arch": {}},
	CommandInstall: {"--os": {}, "--arch": {}, "--prefix": {}},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	// OS and Arch override host detection for resolve and install.
	OS   string
	Arch string
	// Prefix is the install root; bin/ and share/doc/ nest under it.
	Prefix string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	sawCommand := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			value, next, err := flagValue(args, i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.ConfigPath = value
			i = next
		case "--os":
			value, next, err := commandFlagValue(parsed, sawCommand, args, i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.OS = value
			i = next
		case "--arch":
			value, next, err := commandFlagValue(parsed, sawCommand, args, i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Arch = value
			i = next
		case "--prefix":
			value, next, err := commandFlagValue(parsed, sawCommand, args, i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Prefix = value
			i = next
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}
			if sawCommand {
				return Parsed{}, fmt.Errorf("unexpected second command %q", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			sawCommand = true
		}
	}

	return parsed, nil
}

// flagValue reads the argument following a flag at position i.
func flagValue(args []string, i int) (string, int, error) {
	if i+1 >= len(args) {
		return "", i, fmt.Errorf("%s requires a value", args[i])
	}
	return args[i+1], i + 1, nil
}

// commandFlagValue reads a value for a flag that only some commands accept.
func commandFlagValue(parsed Parsed, sawCommand bool, args []string, i int) (string, int, error) {
	flag := args[i]
	if !sawCommand {
		return "", i, fmt.Errorf("%s must follow a command", flag)
	}
	allowed, ok := commandFlags[parsed.Command]
	if !ok {
		return "", i, fmt.Errorf("%s is not valid for command %q", flag, parsed.Command)
	}
	if _, ok := allowed[flag]; !ok {
		return "", i, fmt.Errorf("%s is not valid for command %q", flag, parsed.Command)
	}
	return flagValue(args, i)
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  launch    Open the transient ostt popup and restore focus on exit
  status    Print the state of a running popup, or "idle"
  resolve   Print the distribution target for this (or a given) platform
  install   Download and install the ostt distribution
  history   Print recent launches from the journal
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/osttpop/config.toml)
  --os OS         Override host OS for resolve/install (darwin, linux)
  --arch ARCH     Override host CPU for resolve/install (arm64, amd64)
  --prefix DIR    Install root for install (default: /usr/local)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
