// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// cssg converts CommonMark files to HTML, XML, groff man, or CommonMark.
//
// Usage:
//
//	cssg [flags] [FILE ...]
//
// With no files, cssg reads from standard input.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"
	"zombiezen.com/go/cssg"
)

func main() {
	to := flag.String("to", "html", "output `format` (html, xml, man, commonmark)")
	flag.StringVar(to, "t", "html", "short for -to")
	output := flag.String("o", "", "write output to `file` instead of standard output")
	width := flag.Int("width", 0, "wrap output at `column` (man and commonmark only)")
	sourcepos := flag.Bool("sourcepos", false, "include source position attributes")
	hardbreaks := flag.Bool("hardbreaks", false, "treat newlines as hard line breaks")
	nobreaks := flag.Bool("nobreaks", false, "render soft line breaks as spaces")
	unsafeFlag := flag.Bool("unsafe", false, "render raw HTML and dangerous URLs")
	safeFlag := flag.Bool("safe", false, "omit raw HTML and dangerous URLs (the default)")
	smart := flag.Bool("smart", false, "use smart punctuation")
	validateUTF8 := flag.Bool("validate-utf8", false, "replace invalid UTF-8 sequences with U+FFFD")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("cssg", cssg.VersionString)
		return
	}

	var opts cssg.Options
	if *sourcepos {
		opts |= cssg.OptSourcePos
	}
	if *hardbreaks {
		opts |= cssg.OptHardBreaks
	}
	if *nobreaks {
		opts |= cssg.OptNoBreaks
	}
	if *unsafeFlag {
		opts |= cssg.OptUnsafe
	}
	if *safeFlag {
		opts |= cssg.OptSafe
	}
	if *smart {
		opts |= cssg.OptSmart
	}
	if *validateUTF8 {
		opts |= cssg.OptValidateUTF8
	}

	if err := run(flag.Args(), *to, *output, *width, opts); err != nil {
		fmt.Fprintln(os.Stderr, "cssg:", err)
		os.Exit(1)
	}
}

func run(files []string, format, output string, width int, opts cssg.Options) error {
	parser := cssg.NewParser(opts)
	if len(files) == 0 {
		if err := feed(parser, os.Stdin); err != nil {
			return err
		}
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		err = feed(parser, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	doc := parser.Finish()

	var rendered []byte
	switch format {
	case "html":
		rendered = cssg.RenderHTML(doc, opts)
	case "xml":
		rendered = cssg.RenderXML(doc, opts)
	case "man":
		rendered = cssg.RenderMan(doc, opts, width)
	case "commonmark":
		rendered = cssg.RenderCommonMark(doc, opts, width)
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if output == "" {
		_, err := os.Stdout.Write(rendered)
		return err
	}
	return renameio.WriteFile(output, rendered, 0o666)
}

func feed(parser *cssg.Parser, r io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		parser.Feed(buf[:n])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
