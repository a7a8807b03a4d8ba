package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Francis327921538/graphql-client/compiler"
	"github.com/Francis327921538/graphql-client/internal/eventbus"
	"github.com/Francis327921538/graphql-client/internal/otel"
	"github.com/Francis327921538/graphql-client/schema"

	gqlclient "github.com/Francis327921538/graphql-client"
)

const rootUsage = `gqlclient — GraphQL query compiler & schema tools

USAGE:
  gqlclient <command> [flags]

COMMANDS:
  check            Compile query files against a schema and report errors
  print            Print the frozen form of every definition in query files
  dump-schema      Introspect an endpoint and write the schema as JSON
  help             Show help for any command
`

const checkUsage = `check FLAGS:
  -schema <file>   Schema file, SDL or introspection JSON (required)
  <query files>    GraphQL query files to compile; the module name of each
                   file is its base name without extension
`

const printUsage = `print FLAGS:
  -schema <file>   Schema file, SDL or introspection JSON (required)
  <query files>    GraphQL query files to compile and print
`

const dumpSchemaUsage = `dump-schema FLAGS:
  -endpoint <url>          GraphQL endpoint URL (required)
  -header <Name: Value>    Extra HTTP header. Repeatable
  -timeout <duration>      Request timeout, e.g. 30s (default: 30s)
  -out <file>              Write schema JSON to file (default: stdout)
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: gqlclient)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlclient", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "check":
		return cmdCheck(cmdArgs)
	case "print":
		return cmdPrint(cmdArgs)
	case "dump-schema":
		return cmdDumpSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "check":
		fmt.Print(checkUsage)
	case "print":
		fmt.Print(printUsage)
	case "dump-schema":
		fmt.Print(dumpSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type headerFlag struct {
	h http.Header
}

func (f *headerFlag) String() string { return "" }

func (f *headerFlag) Set(v string) error {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid header %q", v)
	}
	name := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if name == "" {
		return fmt.Errorf("invalid header %q", v)
	}
	if f.h == nil {
		f.h = http.Header{}
	}
	f.h.Add(name, value)
	return nil
}

// compileFiles compiles each query file as its own module, named by the
// file's base name.
func compileFiles(schemaFile string, files []string) ([]*compiler.Module, error) {
	s, err := schema.FromFile(schemaFile)
	if err != nil {
		return nil, err
	}
	c := compiler.New(s)

	var modules []*compiler.Module
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		mod, err := c.Compile(name, string(data), compiler.WithLocation(file, 1))
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

func cmdCheck(args []string) error {
	schemaFile := ""
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("-schema is required")
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("no query files given")
	}

	modules, err := compileFiles(schemaFile, files)
	if err != nil {
		return err
	}
	total := 0
	for _, mod := range modules {
		total += len(mod.Definitions())
	}
	fmt.Printf("ok: %d definitions in %d files\n", total, len(files))
	return nil
}

func cmdPrint(args []string) error {
	schemaFile := ""
	fs := flag.NewFlagSet("print", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, printUsage)
		return fmt.Errorf("-schema is required")
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprint(os.Stderr, printUsage)
		return fmt.Errorf("no query files given")
	}

	modules, err := compileFiles(schemaFile, files)
	if err != nil {
		return err
	}
	for _, mod := range modules {
		for _, def := range mod.Definitions() {
			fmt.Printf("# %s (%s)\n%s\n", def.Name(), def.Kind(), def.String())
		}
	}
	return nil
}

func cmdDumpSchema(args []string) error {
	endpoint := ""
	outFile := ""
	timeout := 30 * time.Second
	otelEndpoint := ""
	otelService := "gqlclient"
	var headers headerFlag

	fs := flag.NewFlagSet("dump-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&endpoint, "endpoint", endpoint, "GraphQL endpoint URL")
	fs.Var(&headers, "header", "Extra HTTP header")
	fs.DurationVar(&timeout, "timeout", timeout, "Request timeout")
	fs.StringVar(&outFile, "out", outFile, "Write schema JSON to file")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, dumpSchemaUsage)
		return err
	}
	if endpoint == "" {
		fmt.Fprint(os.Stderr, dumpSchemaUsage)
		return fmt.Errorf("-endpoint is required")
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	exec := &gqlclient.HTTPExecutor{URL: endpoint, Headers: headers.h}
	s, err := gqlclient.FetchSchema(ctx, exec)
	if err != nil {
		return fmt.Errorf("fetch schema: %w", err)
	}
	data, err := schema.Dump(s)
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Printf("%s\n", data)
		return nil
	}
	return os.WriteFile(outFile, data, 0644)
}
