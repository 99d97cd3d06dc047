/*
Package cli provides helpers shared by the docforge commands.

Output Formatting:

Commands that print records support text, JSON and CSV output. Results
implementing Table render as aligned columns or CSV rows:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
