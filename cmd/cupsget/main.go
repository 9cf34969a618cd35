/* cups4j - Command-line driver exercising the client library end to end.
 *
 * See LICENSE for license terms and conditions
 */

/* cups4j - Command-line driver exercising the client library end to end.
 *
 * See LICENSE for license terms and conditions
 *
 * Not part of the public API.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/oboehm/cups4j/config"
	"github.com/oboehm/cups4j/cups"
)

const usageText = `Usage:
    %s [-c config-file] command [args...]

Commands are:
    printers                        list printers known to the server
    default                         show the default printer
    print printer-uri file          submit file to printer-uri
    jobs printer-uri                list jobs queued on printer-uri
    cancel printer-uri job-id        cancel job-id
    hold printer-uri job-id          hold job-id
    release printer-uri job-id       release job-id
    move job-uri target-printer-uri  move a job to another printer

Options are:
    -c config-file    load configuration from config-file (default: built-in defaults)
`

func usage() {
	fmt.Printf(usageText, os.Args[0])
	os.Exit(0)
}

func usageError(format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	fmt.Fprintf(os.Stderr, "Try %s -h for more information\n", os.Args[0])
	os.Exit(1)
}

func parseArgv() (configFile string, command string, rest []string) {
	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			usage()
		case "-c":
			if len(args) < 2 {
				usageError("-c requires a config file path")
			}
			configFile = args[1]
			args = args[2:]
			continue
		default:
			command = args[0]
			rest = args[1:]
			return
		}
	}
	usageError("no command given")
	return
}

func loadConfig(path string) config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	configFile, command, args := parseArgv()
	cfg := loadConfig(configFile)
	client := cups.NewClient(cfg)
	ctx := context.Background()

	var err error
	switch command {
	case "printers":
		err = cmdPrinters(ctx, client)
	case "default":
		err = cmdDefault(ctx, client)
	case "print":
		err = cmdPrint(ctx, client, args)
	case "jobs":
		err = cmdJobs(ctx, client, args)
	case "cancel":
		err = cmdJobControl(ctx, client.CancelJob, args)
	case "hold":
		err = cmdJobControl(ctx, client.HoldJob, args)
	case "release":
		err = cmdJobControl(ctx, client.ReleaseJob, args)
	case "move":
		err = cmdMove(ctx, client, args)
	default:
		usageError("unknown command %q", command)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(1)
	}
}

func cmdPrinters(ctx context.Context, client *cups.Client) error {
	printers, err := client.GetPrintersWithoutDefault(ctx)
	if err != nil {
		return err
	}
	for _, p := range printers {
		def := ""
		if p.IsDefault {
			def = " (default)"
		}
		fmt.Printf("%-24s %-12s %s%s\n", p.Name, p.State, p.URI, def)
	}
	return nil
}

func cmdDefault(ctx context.Context, client *cups.Client) error {
	p, err := client.GetDefaultPrinter(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s %s\n", p.Name, p.State, p.URI)
	return nil
}

func cmdPrint(ctx context.Context, client *cups.Client, args []string) error {
	if len(args) < 2 {
		usageError("print requires printer-uri and file")
	}
	printerURI, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	job := cups.NewPrintJob(f)
	job.JobName = path

	attrs, err := client.PrintJobSubmit(ctx, printerURI, job)
	if err != nil {
		return err
	}
	fmt.Printf("job %d queued as %s (%s)\n", attrs.JobID, attrs.JobURI, attrs.State)
	return nil
}

func cmdJobs(ctx context.Context, client *cups.Client, args []string) error {
	if len(args) < 1 {
		usageError("jobs requires printer-uri")
	}
	jobs, err := client.GetJobs(ctx, cups.GetJobsOptions{PrinterURI: args[0]})
	if err != nil {
		return err
	}
	for _, j := range jobs {
		fmt.Printf("%-6d %-12s %s\n", j.JobID, j.State, j.JobName)
	}
	return nil
}

func cmdJobControl(ctx context.Context, op func(context.Context, string, uint32, string) error, args []string) error {
	if len(args) < 2 {
		usageError("requires printer-uri and job-id")
	}
	jobID, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[1], err)
	}
	return op(ctx, args[0], uint32(jobID), "")
}

func cmdMove(ctx context.Context, client *cups.Client, args []string) error {
	if len(args) < 2 {
		usageError("move requires job-uri and target-printer-uri")
	}
	ok, err := client.MoveJob(ctx, args[0], "", args[1])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "move did not succeed")
	}
	return nil
}
