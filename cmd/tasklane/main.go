package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	apilabels "github.com/tasklane/tasklane/pkg/api/types/labels"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/auth"
	kcs "github.com/tasklane/tasklane/pkg/configs/server"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

const usage = `tasklane <command> [options]

commands:
  list   list tasks
  add    add a new task
  done   mark tasks done (or reopen with -undo)
  rm     remove tasks
  token  mint an API token from the server config
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "list":
		err = cmdList(ctx, os.Args[2:])
	case "add":
		err = cmdAdd(ctx, os.Args[2:])
	case "done":
		err = cmdDone(ctx, os.Args[2:])
	case "rm":
		err = cmdRm(ctx, os.Args[2:])
	case "token":
		err = cmdToken(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "tasklane %s: %s\n", os.Args[1], err)
		os.Exit(1)
	}
}

// multiFlag collects repeated flag values.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func serverFlags(fs *flag.FlagSet) (server *string, token *string) {
	defaultServer := os.Getenv("TASKLANE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	server = fs.String("server", defaultServer, "tasklane server URL")
	token = fs.String("token", os.Getenv("TASKLANE_TOKEN"), "bearer token for mutating requests")
	return
}

func cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	server, token := serverFlags(fs)
	labels := multiFlag{}
	fs.Var(&labels, "label", "filter on label KEY:VALUE (repeatable)")
	done := fs.String("done", "", `filter on done flag: "true" or "false"`)
	since := fs.String("since", "", "tasks updated at this RFC3339 timestamp or later")
	duration := fs.String("duration", "", `bound on updates counted from -since, like "72h"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := url.Values{}
	for _, l := range labels {
		query.Add("label", l)
	}
	if *done != "" {
		query.Set("done", *done)
	}
	if *since != "" {
		query.Set("since", *since)
	}
	if *duration != "" {
		query.Set("duration", *duration)
	}

	found, err := newRestClient(*server, *token).List(ctx, query)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TASK ID\tDONE\tPRIORITY\tDEADLINE\tTITLE\tLABELS")
	for _, task := range found {
		deadline := "-"
		if task.Deadline != nil {
			deadline = task.Deadline.String()
		}
		doneMark := " "
		if task.Done {
			doneMark = "x"
		}
		userLabels := []string{}
		for _, l := range task.Labels {
			if !strings.HasPrefix(l.Key, "task#") {
				userLabels = append(userLabels, l.String())
			}
		}
		fmt.Fprintf(
			w, "%s\t[%s]\tP%d\t%s\t%s\t%s\n",
			task.TaskId, doneMark, task.Priority, deadline,
			task.Title, strings.Join(userLabels, ","),
		)
	}
	return w.Flush()
}

func cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	server, token := serverFlags(fs)
	note := fs.String("note", "", "free-text note")
	priority := fs.Int("priority", 0, "priority, 1 (highest) to 5 (lowest)")
	deadline := fs.String("deadline", "", "deadline as RFC3339 timestamp")
	labels := multiFlag{}
	fs.Var(&labels, "label", "label KEY:VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("task title is required")
	}

	spec := apitasks.TaskSpec{
		Title:    strings.Join(fs.Args(), " "),
		Note:     *note,
		Priority: *priority,
	}
	if *deadline != "" {
		d, err := rfctime.ParseRFC3339DateTime(*deadline)
		if err != nil {
			return fmt.Errorf("bad deadline: %w", err)
		}
		spec.Deadline = &d
	}
	for _, l := range labels {
		if err := appendUserLabel(&spec, l); err != nil {
			return err
		}
	}

	created, err := newRestClient(*server, *token).Add(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Println(created.TaskId)
	return nil
}

func appendUserLabel(spec *apitasks.TaskSpec, s string) error {
	l := apilabels.UserLabel{}
	if err := l.Parse(s); err != nil {
		return fmt.Errorf("bad label: %w", err)
	}
	spec.Labels = append(spec.Labels, l)
	return nil
}

func cmdDone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("done", flag.ExitOnError)
	server, token := serverFlags(fs)
	undo := fs.Bool("undo", false, "reopen instead of marking done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("task id is required")
	}

	client := newRestClient(*server, *token)
	for _, taskId := range fs.Args() {
		updated, err := client.SetDone(ctx, taskId, !*undo)
		if err != nil {
			return err
		}
		state := "done"
		if !updated.Done {
			state = "open"
		}
		fmt.Printf("%s: %s\n", updated.TaskId, state)
	}
	return nil
}

func cmdRm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	server, token := serverFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("task id is required")
	}

	client := newRestClient(*server, *token)
	for _, taskId := range fs.Args() {
		if err := client.Remove(ctx, taskId); err != nil {
			return err
		}
		fmt.Printf("%s: removed\n", taskId)
	}
	return nil
}

func cmdToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the server config file")
	subject := fs.String("subject", "cli", "name of the token bearer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("-config is required")
	}

	conf, err := kcs.LoadServerConfig(*configPath)
	if err != nil {
		return err
	}
	if conf.Auth == nil {
		return fmt.Errorf("the server config has no auth section")
	}

	issuer := auth.NewIssuer(conf.Auth.Secret, conf.Auth.TokenTTL)
	token, err := issuer.Issue(*subject, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
