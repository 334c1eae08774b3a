package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkt.systems/mdw"
	"pkt.systems/mdw/internal/docspec"
)

var formats = []struct {
	format mdw.Format
	suffix string
}{
	{mdw.FormatCommonMark, ".md.golden"},
	{mdw.FormatHTML, ".html.golden"},
}

func main() {
	root := "testdata"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, ".yaml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no document descriptions found under %s", root)
	}
	sort.Strings(paths)
	for _, path := range paths {
		spec, err := loadSpec(path)
		if err != nil {
			fatalf("%s: %v", path, err)
		}
		for _, f := range formats {
			var out bytes.Buffer
			if err := spec.Render(&out, f.format); err != nil {
				fatalf("render %s as %s: %v", path, f.format, err)
			}
			goldenPath := strings.TrimSuffix(path, ".yaml") + f.suffix
			if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func loadSpec(path string) (*docspec.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return docspec.Load(f)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
