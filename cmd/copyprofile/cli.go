package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/n2code/copyprofile"
	"github.com/n2code/copyprofile/cmd/copyprofile/flags"
	"github.com/n2code/copyprofile/internal/logging"
	"github.com/n2code/copyprofile/internal/options"
)

type CliRequest struct {
	verbose    bool
	quiet      bool
	plain      bool
	projectDir string
	action     string
	overrides  options.Settings
	confirm    bool
	diff       bool
	out        io.Writer
}

var errOutOfSync = errors.New("profile copy is out of sync")

// excludeList collects every occurrence of a repeatable flag.
type excludeList struct {
	names *[]string
}

func (l excludeList) String() string {
	if l.names == nil {
		return ""
	}
	return strings.Join(*l.names, ",")
}

func (l excludeList) Set(name string) error {
	if name == "" {
		return errors.New("empty directory name")
	}
	*l.names = append(*l.names, name)
	return nil
}

func parseFlags(args []string, out io.Writer, errOut io.Writer) (request *CliRequest, exitCode int) {
	globalFlags := flag.NewFlagSet("", flag.ContinueOnError)
	globalFlags.SetOutput(errOut)
	globalFlags.Usage = func() {
		fmt.Fprint(globalFlags.Output(), `
Usage:
   copyprofile [-v|-q] [-p] [-C DIR] [-h] <ACTION> [FLAG]

 ACTIONs:  copy  tree  status
           post-install-cmd  post-update-cmd  (composer script aliases of copy)

`)
		globalFlags.PrintDefaults()
		fmt.Fprint(globalFlags.Output(), `
 FLAG(s) are action-specific.
 You can read the help on any action:
    copyprofile <ACTION> -h

`)
	}

	request = &CliRequest{out: out}
	var generalHelpRequested bool
	globalFlags.BoolVar(&request.verbose, flags.Verbose, false, "Output more details on what is done (verbose mode)")
	globalFlags.BoolVar(&request.quiet, flags.Quiet, false, "Output as little as possible, i.e. only requested information (quiet mode)")
	globalFlags.BoolVar(&request.plain, flags.Plain, false, "Do not use colors or other terminal escape sequences (plain mode)")
	globalFlags.StringVar(&request.projectDir, flags.ProjectDir, "", "Project directory containing composer.json (default: working directory)")
	globalFlags.BoolVar(&generalHelpRequested, flags.Help, false, "Display general usage help")

	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(errOut, "%s\nUsage help: copyprofile -h\n", err)
			exitCode = 2
			request = nil
		}
	}()

	if parseErr := globalFlags.Parse(args); parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2 //flag package already reported the problem
	}

	if generalHelpRequested {
		globalFlags.SetOutput(out)
		globalFlags.Usage()
		return nil, 0
	}
	if globalFlags.NArg() == 0 {
		err = errors.New("No action given!")
		return
	}
	if request.verbose && request.quiet {
		err = errors.New("Quiet mode and verbose mode are mutually exclusive!")
		return
	}

	request.action = globalFlags.Arg(0)
	actionDescriptionIndent := "  "
	actionDescription := actionDescriptionIndent
	flagSpecification := " [-exclude NAME]... [-omit-defaults] [-profile-name NAME] [-web-root DIR]"

	actionParams := flag.NewFlagSet(request.action+" action", flag.ContinueOnError)
	actionParams.SetOutput(errOut)
	actionParams.Usage = func() {
		fmt.Fprintf(actionParams.Output(), `
Usage of %s action:
   copyprofile [MODE] %s%s

%s

 Available flags:
`, request.action, request.action, flagSpecification, actionDescription)
		actionParams.PrintDefaults()
		fmt.Fprint(actionParams.Output(), `
 Global MODE documentation can be shown by:
    copyprofile -h

`)
	}

	actionParams.Var(excludeList{&request.overrides.Excludes}, flags.Exclude, "additional directory `NAME` to skip wherever it occurs (repeatable)")
	omitDefaults := actionParams.Bool(flags.OmitDefaults, false, "do not skip web root, vendor directory and .git by default")
	actionParams.StringVar(&request.overrides.ProfileName, flags.ProfileName, "", "profile `NAME`, i.e. directory name below profiles/contrib\n(default: package name without vendor prefix)")
	actionParams.StringVar(&request.overrides.WebRoot, flags.WebRoot, "", "web root `DIR`, relative to the project directory unless absolute\n(default: parent directory of the installed drupal/core package)")

	switch request.action {
	case "copy", "post-install-cmd", "post-update-cmd":
		actionDescription += "Delete the profile directory inside the web root and copy the project\n" +
			actionDescriptionIndent + "into it. Directories named like the web root, the vendor directory, .git\n" +
			actionDescriptionIndent + "and all additional excludes are skipped wherever they occur."
		if request.action == "copy" {
			flagSpecification += " [-confirm]"
			actionParams.BoolVar(&request.confirm, flags.CopyWithConfirmation, false, "ask before replacing an existing profile directory")
		}
	case "tree":
		actionDescription += "Display everything a copy would create as a tree without copying."
	case "status":
		flagSpecification += " [-diff]"
		actionDescription += "Compare the existing profile directory with the project and list all\n" +
			actionDescriptionIndent + "differences. Exits with code 1 if the copy is out of sync."
		actionParams.BoolVar(&request.diff, flags.StatusWithDiff, false, "print a patch for every modified text file")
	default:
		err = fmt.Errorf(`unknown action "%s"`, request.action)
		return
	}

	if parseErr := actionParams.Parse(globalFlags.Args()[1:]); parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}
	if actionParams.NArg() > 0 {
		err = errors.New("action accepts no arguments, only flags")
		return
	}
	actionParams.Visit(func(f *flag.Flag) {
		if f.Name == flags.OmitDefaults {
			request.overrides.OmitDefaults = omitDefaults
		}
	})
	return
}

func (rq *CliRequest) execute() (execErr error) {
	var config copyprofile.CreateConfig
	if rq.verbose {
		config.Verbosity = copyprofile.VerboseMode
	}
	if rq.quiet {
		config.Verbosity = copyprofile.QuietMode
	}
	config.AllowEscapes = !rq.plain && term.IsTerminal(int(os.Stdout.Fd()))

	projectDir := rq.projectDir
	if projectDir == "" {
		projectDir, _ = os.Getwd()
	}
	api, err := copyprofile.Open(projectDir, config, rq.overrides)
	if err != nil {
		return err
	}

	switch rq.action {
	case "copy", "post-install-cmd", "post-update-cmd":
		confirm := AutoChooseDefaultOption(rq.out, rq.quiet)
		if rq.confirm {
			confirm = PromptUser(config.AllowEscapes && term.IsTerminal(int(os.Stdin.Fd())))
		}
		return api.CopyProfile(confirm)
	case "tree":
		return api.PrintTree()
	case "status":
		inSync, err := api.PrintStatus(rq.diff)
		if err != nil {
			return err
		}
		if !inSync {
			return errOutOfSync
		}
	default:
		panic("bad action")
	}
	return nil
}

// run executes the command line and yields the exit code.
func run(args []string, out io.Writer, errOut io.Writer) int {
	rq, rc := parseFlags(args, out, errOut)
	if rc != 0 || rq == nil {
		return rc
	}
	if err := rq.execute(); err != nil {
		if !(rq.quiet && errors.Is(err, errOutOfSync)) {
			fmt.Fprintln(errOut, err)
		}
		return 1
	}
	return 0
}

func main() {
	logging.ConfigureRuntime(term.IsTerminal(int(os.Stderr.Fd())))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
