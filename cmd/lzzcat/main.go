// Command lzzcat scans one or more lzz archives and prints a summary of
// each: its format, entry count, and title. Each archive is scanned
// independently (no shared Context or Archive), so scanning a batch of
// files fans out across goroutines with golang.org/x/sync/errgroup - safe
// precisely because each goroutine owns its own Context/Archive pair.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/muragami/lzz"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: lzzcat FILE [FILE...]\n")
	}
	flag.Parse()
	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	summaries := make([]string, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			summary, err := summarize(path)
			if err != nil {
				summaries[i] = fmt.Sprintf("%s: error: %v", path, err)
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range summaries {
		fmt.Println(s)
	}
}

func summarize(path string) (string, error) {
	arc, err := lzz.ReadFile(path, nil, lzz.FlagNormal)
	if err != nil && arc == nil {
		return "", err
	}
	title := ""
	if e0 := arc.Entry0(); e0 != nil {
		title = e0.Title
	}
	format := "raw"
	if arc.Format == lzz.FormatLZ4 {
		format = "lz4"
	}
	status := "ok"
	if arc.Errors.Len() > 0 {
		status = fmt.Sprintf("%d diagnostics", arc.Errors.Len())
	}
	return fmt.Sprintf("%s: format=%s entries=%d title=%q (%s)",
		path, format, len(arc.ReadEntries()), title, status), nil
}
