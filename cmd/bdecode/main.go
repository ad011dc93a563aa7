package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chrispritchard/gobencode/internal/bencode"
	"github.com/chrispritchard/gobencode/internal/terminal"
	"github.com/chrispritchard/gobencode/internal/torrent"
	. "github.com/chrispritchard/gobencode/internal/torrent_files"
	"github.com/chrispritchard/gobencode/internal/tracker"
	"github.com/chrispritchard/gobencode/internal/util"
)

var verbose bool

func vprintfln(format string, a ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}

type options struct {
	expr     string
	kind     bencode.Kind
	format   string
	strict   bool
	torrent  bool
	tracker  bool
	jobs     int
	color    bool
	width    int
	progress bool
}

type input struct {
	name string
	read func() ([]byte, error)
}

type result struct {
	value    bencode.Value
	trailing int
	metadata *TorrentMetadata
	announce *tracker.TrackerResponse
}

func main() {
	var kind_name string
	var no_color bool
	var opts options

	flag.BoolVar(&verbose, "v", false, "enable verbose output")
	flag.StringVar(&opts.expr, "e", "", "decode this bencoded expression instead of files")
	flag.StringVar(&kind_name, "type", "any", "required top-level kind: any, int, string, list or dict")
	flag.StringVar(&opts.format, "format", "tree", "output format: tree, json, bencode (canonical re-encoding) or line")
	flag.BoolVar(&opts.strict, "strict", false, "fail when bytes follow the top-level value")
	flag.BoolVar(&opts.torrent, "torrent", false, "print a torrent metainfo summary instead of the tree")
	flag.BoolVar(&opts.tracker, "tracker", false, "print a tracker announce response summary instead of the tree")
	flag.IntVar(&opts.jobs, "j", 4, "number of files decoded at the same time")
	flag.BoolVar(&no_color, "no-color", false, "disable coloured output")
	flag.IntVar(&opts.width, "width", -1, "truncate text values to this many columns (0 for no limit, default fits the terminal)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: bdecode [options] <file>...")
		fmt.Fprintln(flag.CommandLine.Output(), "       bdecode [options] -e <expression>")
		flag.PrintDefaults()
	}
	flag.Parse()

	kind, err := parse_kind(kind_name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	opts.kind = kind
	if opts.torrent && opts.tracker {
		fmt.Fprintln(os.Stderr, "-torrent and -tracker cannot be combined")
		os.Exit(2)
	}
	if !valid_format(opts.format) {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", opts.format)
		os.Exit(2)
	}

	inputs := collect_inputs(opts.expr, flag.Args())
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts.color = !no_color && terminal.IsTerminal(os.Stdout)
	if opts.width < 0 {
		opts.width = terminal.Width(os.Stdout) - 8
	}
	opts.progress = len(inputs) > 1 && !verbose && terminal.IsTerminal(os.Stderr)

	failed := run(inputs, opts, os.Stdout, os.Stderr)
	if failed > 0 {
		vprintfln("%d of %d inputs failed", failed, len(inputs))
		os.Exit(1)
	}
}

func collect_inputs(expr string, paths []string) []input {
	if expr != "" {
		return []input{{name: "-e", read: func() ([]byte, error) { return []byte(expr), nil }}}
	}
	inputs := make([]input, 0, len(paths))
	for _, p := range paths {
		inputs = append(inputs, input{name: p, read: func() ([]byte, error) {
			d, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("unable to read file at path %s: %v", p, err)
			}
			return d, nil
		}})
	}
	return inputs
}

// run decodes every input, with up to opts.jobs in flight, and prints the results in input order. It returns the
// number of inputs that failed.
func run(inputs []input, opts options, out, errs io.Writer) int {
	var progress *terminal.Progress
	if opts.progress {
		progress = terminal.NewProgress(len(inputs), "decoding", errs)
	}

	ops := make([]util.Op[result], len(inputs))
	for i, in := range inputs {
		ops[i] = func() (result, error) {
			defer progress.Step()
			data, err := in.read()
			if err != nil {
				return result{}, err
			}
			vprintfln("%s: read %d bytes", in.name, len(data))
			return process(data, opts)
		}
	}
	results, failures := util.Concurrent(ops, opts.jobs)
	progress.Close()

	r := terminal.NewRenderer(opts.color, opts.width)
	failed := 0
	for i, in := range inputs {
		if len(inputs) > 1 {
			fmt.Fprintln(out, r.Paint("bold", "==> "+in.name+" <=="))
		}
		if failures[i] != nil {
			failed++
			fmt.Fprintf(errs, "%s %s: %v\n", r.Paint("red", "error:"), in.name, failures[i])
			continue
		}
		if results[i].trailing > 0 {
			vprintfln("%s: ignored %d trailing bytes", in.name, results[i].trailing)
		}
		if err := print_result(out, r, results[i], opts.format); err != nil {
			failed++
			fmt.Fprintf(errs, "%s %s: %v\n", r.Paint("red", "error:"), in.name, err)
		}
	}
	return failed
}

func process(data []byte, opts options) (result, error) {
	v, rest, err := bencode.DecodeAsPrefix(data, opts.kind)
	if err != nil {
		return result{}, err
	}
	if opts.strict && len(rest) > 0 {
		return result{}, fmt.Errorf("%d trailing bytes after the top-level value", len(rest))
	}

	res := result{value: v, trailing: len(rest)}
	if opts.torrent {
		// torrent parsing wants only the value itself, as the info hash is taken from the raw bytes
		metadata, err := torrent.ParseTorrentFile(data[:len(data)-len(rest)])
		if err != nil {
			return result{}, err
		}
		res.metadata = &metadata
	} else if opts.tracker {
		announce, err := tracker.ParseTrackerResponse(data[:len(data)-len(rest)])
		if err != nil {
			return result{}, err
		}
		res.announce = &announce
	}
	return res, nil
}

func print_result(out io.Writer, r *terminal.Renderer, res result, format string) error {
	if res.metadata != nil {
		print_summary(out, r, res.metadata.Summary())
		return nil
	}
	if res.announce != nil {
		print_summary(out, r, res.announce.Summary())
		return nil
	}

	switch format {
	case "json":
		b, err := res.value.MarshalJSON()
		if err != nil {
			return err
		}
		out.Write(append(b, '\n'))
	case "bencode":
		out.Write(bencode.Encode(res.value))
	case "line":
		fmt.Fprintln(out, res.value.String())
	default:
		fmt.Fprint(out, r.Render(res.value))
	}
	return nil
}

func print_summary(out io.Writer, r *terminal.Renderer, lines [][2]string) {
	for _, line := range lines {
		fmt.Fprintf(out, "%s %s\n", r.Paint("cyan", fmt.Sprintf("%-12s", line[0]+":")), line[1])
	}
}

func parse_kind(name string) (bencode.Kind, error) {
	switch strings.ToLower(name) {
	case "", "any":
		return bencode.Invalid, nil
	case "int", "integer":
		return bencode.IntegerKind, nil
	case "string", "str", "bytes":
		return bencode.StringKind, nil
	case "list":
		return bencode.ListKind, nil
	case "dict", "dictionary":
		return bencode.DictionaryKind, nil
	}
	return bencode.Invalid, fmt.Errorf("unknown type %q: want any, int, string, list or dict", name)
}

func valid_format(format string) bool {
	switch format {
	case "tree", "json", "bencode", "line":
		return true
	}
	return false
}
