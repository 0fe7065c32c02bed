// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"runtime/debug"

	maybeio "github.com/google/renameio/v2/maybe"
	"github.com/pkg/diff"
	diffwrite "github.com/pkg/diff/write"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"mvdan.cc/editorconfig"

	"mvdan.cc/flowopt/condition"
	"mvdan.cc/flowopt/fileutil"
	"mvdan.cc/flowopt/syntax"
)

var (
	showVersion = flag.Bool("version", false, "")

	list     = flag.BoolP("list", "l", false, "")
	write    = flag.BoolP("write", "w", false, "")
	diffOut  = flag.BoolP("diff", "d", false, "")
	check    = flag.BoolP("check", "c", false, "")
	debugLog = flag.Bool("debug", false, "")
	filename = flag.String("filename", "", "")

	indent = flag.UintP("indent", "i", 0, "")

	// useEditorConfig will be false if any printer flags were used.
	useEditorConfig = true

	merger *condition.Merger
	logger = zap.NewNop()

	in    io.Reader = os.Stdin
	out   io.Writer = os.Stdout
	color bool

	version = "(devel)" // to match the default from runtime/debug
)

func main() {
	os.Exit(main1())
}

func main1() int {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: flowopt [flags] [path ...]

If the only argument is a dash ('-') or no arguments are given, standard input
will be used. If a given path is a directory, it will be recursively searched
for flow files - both by filename extension and by their opening (flow.

  --version        show version and exit

  -l, --list       list files whose optimized form differs from their source
  -w, --write      write result to file instead of stdout
  -d, --diff       error with a diff when the optimized form differs
  -c, --check      only check that the input can be optimized
  -i, --indent     spaces per indentation level (default 2)
  --filename str   provide a name for the standard input file
  --debug          trace merge decisions to stderr
`)
	}
	flag.Parse()

	if *showVersion {
		// don't overwrite the version if it was set by -ldflags=-X
		if info, ok := debug.ReadBuildInfo(); ok && version == "(devel)" {
			mod := &info.Main
			if mod.Replace != nil {
				mod = mod.Replace
			}
			if mod.Version != "" {
				version = mod.Version
			}
		}
		fmt.Fprintln(out, version)
		return 0
	}
	if os.Getenv("FLOWOPT_NO_EDITORCONFIG") == "true" || flag.CommandLine.Changed("indent") {
		useEditorConfig = false
	}
	if *debugLog {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		logger = l
		defer logger.Sync()
	}
	merger = condition.NewMerger(condition.Logger(logger.Named("merge")))

	if os.Getenv("FORCE_COLOR") == "true" {
		// Undocumented way to force color; used in the tests.
		color = true
	} else if os.Getenv("TERM") == "dumb" {
		// Equivalent to forcing color to be turned off.
	} else if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		color = true
	}
	if flag.NArg() == 0 || (flag.NArg() == 1 && flag.Arg(0) == "-") {
		name := "<standard input>"
		if *filename != "" {
			name = *filename
		}
		if err := formatStdin(name); err != nil {
			if err != errChangedWithDiff {
				fmt.Fprintln(os.Stderr, err)
			}
			return 1
		}
		return 0
	}
	if *filename != "" {
		fmt.Fprintln(os.Stderr, "--filename can only be used with stdin")
		return 1
	}
	status := 0
	var jobs []*job
	for _, path := range flag.Args() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			// When given paths to files directly, always optimize
			// them, no matter their extension or contents.
			j, err := newJob(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			jobs = append(jobs, j)
			continue
		}
		if err := filepath.Walk(path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			j, err := walkPath(path, info)
			switch err {
			case nil:
			case filepath.SkipDir:
				return err
			default:
				fmt.Fprintln(os.Stderr, err)
				status = 1
			}
			if j != nil {
				jobs = append(jobs, j)
			}
			return nil
		}); err != nil {
			// Something went wrong walking the filesystem; stop.
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			j.err = j.formatPath()
			return nil
		})
	}
	g.Wait()

	// Results are written in the order the paths were found.
	for _, j := range jobs {
		if _, err := out.Write(j.out.Bytes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		switch j.err {
		case nil:
		case errChangedWithDiff:
			status = 1
		default:
			fmt.Fprintln(os.Stderr, j.err)
			status = 1
		}
	}
	return status
}

var errChangedWithDiff = errors.New("")

// job holds the work and the output for a single input. Jobs run
// concurrently, so each one buffers what it prints.
type job struct {
	path        string
	walked      bool // found while walking a directory
	checkHeader bool
	printer     *syntax.Printer

	out bytes.Buffer
	err error
}

func newJob(path string) (*job, error) {
	j := &job{path: path, printer: syntax.NewPrinter(syntax.Indent(*indent))}
	if useEditorConfig {
		props, err := ecQuery.Find(path)
		if err != nil {
			return nil, err
		}
		propsOptions(props, j.printer)
	}
	return j, nil
}

func formatStdin(name string) error {
	if *write {
		return fmt.Errorf("-w cannot be used on standard input")
	}
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	j, err := newJob(name)
	if err != nil {
		return err
	}
	err = j.formatBytes(src)
	if _, werr := out.Write(j.out.Bytes()); werr != nil && err == nil {
		err = werr
	}
	return err
}

var vcsDir = regexp.MustCompile(`^\.(git|svn|hg)$`)

func walkPath(path string, info os.FileInfo) (*job, error) {
	if info.IsDir() && vcsDir.MatchString(info.Name()) {
		return nil, filepath.SkipDir
	}
	if useEditorConfig {
		props, err := ecQuery.Find(path)
		if err != nil {
			return nil, err
		}
		if props.Get("ignore") == "true" {
			if info.IsDir() {
				return nil, filepath.SkipDir
			}
			return nil, nil
		}
	}
	conf := fileutil.CouldBeFlow(info)
	if conf == fileutil.ConfNotFlow {
		return nil, nil
	}
	j, err := newJob(path)
	if err != nil {
		return nil, err
	}
	j.walked = true
	j.checkHeader = conf == fileutil.ConfIfHeader
	return j, nil
}

var ecQuery = editorconfig.Query{
	FileCache:   make(map[string]*editorconfig.File),
	RegexpCache: make(map[string]*regexp.Regexp),
}

func propsOptions(props editorconfig.Section, printer *syntax.Printer) {
	if n := props.IndentSize(); n > 0 {
		syntax.Indent(uint(n))(printer)
	}
}

func (j *job) formatPath() error {
	src, err := os.ReadFile(j.path)
	if err != nil {
		if j.walked && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if j.checkHeader {
		header := src
		if len(header) > fileutil.HeaderSize {
			header = header[:fileutil.HeaderSize]
		}
		if !fileutil.HasFlowHeader(header) {
			return nil
		}
	}
	return j.formatBytes(src)
}

func (j *job) formatBytes(src []byte) error {
	tree, err := syntax.NewParser().Parse(bytes.NewReader(src), j.path)
	if err != nil {
		return err
	}
	if err := condition.Check(tree); err != nil {
		return fmt.Errorf("%s: %w", j.path, err)
	}
	if *check {
		return nil
	}
	logger.Debug("optimizing", zap.String("path", j.path))
	var buf bytes.Buffer
	if err := j.printer.Print(&buf, merger.Optimize(tree)); err != nil {
		return err
	}
	res := buf.Bytes()
	if !bytes.Equal(src, res) {
		if *list {
			fmt.Fprintln(&j.out, j.path)
		}
		if *write {
			info, err := os.Lstat(j.path)
			if err != nil {
				return err
			}
			if err := maybeio.WriteFile(j.path, res, info.Mode().Perm()); err != nil {
				return err
			}
			logger.Debug("wrote file", zap.String("path", j.path), zap.Int("size", len(res)))
		}
		if *diffOut {
			opts := []diffwrite.Option{}
			if color {
				opts = append(opts, diffwrite.TerminalColor())
			}
			if err := diff.Text(j.path+".orig", j.path, src, res, &j.out, opts...); err != nil {
				return fmt.Errorf("computing diff: %s", err)
			}
			return errChangedWithDiff
		}
	}
	if !*list && !*write && !*diffOut {
		j.out.Write(res)
	}
	return nil
}
