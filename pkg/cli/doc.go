/*
Package cli provides command-line helpers for the canonguard command.

Reporting:

A Reporter renders a gate verdict, or the configuration error that
prevented one, to stdout:

	reporter, err := cli.NewReporter(cli.FormatText)
	if err != nil {
		return err
	}
	reporter.Verdict(os.Stdout, verdict)

The text reporter prints the familiar banner-style report; the JSON
reporter prints a single Report document for CI systems.

Exit codes:

	0  the gate passed (including "no changes")
	1  the command was used incorrectly
	2  the gate failed, or the ruleset/phase could not be used

ExitCode maps an error returned by a command to one of these codes.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
