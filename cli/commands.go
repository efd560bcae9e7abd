package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Parse a beancount input file and print a summary."`
	Format FormatCmd `cmd:"" help:"Parse a beancount file and render its canonical form."`
}
