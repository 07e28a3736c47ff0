// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	hkx "github.com/gohkx/hkx"
)

// defaultOutputFile matches the reference implementation's own filename
// choice for its JSON dump, "sic" and all.
const defaultOutputFile = "output.xml"

var (
	verbose bool
	items   []uint64
	output  string
)

func prettyPrint(buf []byte) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		log.Println("JSON indent error:", err)
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// dumpFile decodes filename and writes its value tree as JSON. The default
// root is item #1; -i overrides which ordinals are dumped. Returns false on
// any error, which the caller turns into a non-zero exit code.
func dumpFile(filename string) bool {
	log.Printf("processing %s", filename)

	f, err := hkx.New(filename, &hkx.Options{})
	if err != nil {
		log.Printf("error opening %s: %v", filename, err)
		return false
	}
	defer f.Close()

	log.Printf("version=%s types=%d items=%d digest=%x",
		f.Version, len(f.Dictionary.Types), len(f.Items.Items), f.Digest())

	ordinals := items
	if len(ordinals) == 0 {
		ordinals = []uint64{1}
	}

	var tree hkx.Value
	if len(ordinals) == 1 {
		tree, err = f.Deserialize(ordinals[0])
		if err != nil {
			log.Printf("item %d: %v", ordinals[0], err)
			return false
		}
	} else {
		rv := hkx.NewRecordValue()
		for _, ord := range ordinals {
			v, err := f.Deserialize(ord)
			if err != nil {
				log.Printf("item %d: %v", ord, err)
				return false
			}
			rv.Set(fmt.Sprintf("%d", ord), v)
		}
		tree = hkx.RecordValueOf(rv)
	}

	buf, err := json.Marshal(tree)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return false
	}
	rendered := prettyPrint(buf)

	dest := output
	if dest == "" {
		dest = defaultOutputFile
	}
	if err := os.WriteFile(dest, []byte(rendered), 0o644); err != nil {
		log.Printf("write %s: %v", dest, err)
		return false
	}
	return true
}

func dump(cmd *cobra.Command, args []string) {
	path := args[0]

	ok := true
	if !isDirectory(path) {
		ok = dumpFile(path)
	} else {
		var files []string
		filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				files = append(files, p)
			}
			return nil
		})
		for _, file := range files {
			if !dumpFile(file) {
				ok = false
			}
		}
	}

	if !ok {
		os.Exit(1)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "hkxdump",
		Short: "An HKX tag container parser",
		Long:  "Decodes HKX tag files into their type dictionary, item table, and value tree",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("hkxdump 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <file-or-dir>",
		Short: "Dumps the decoded value tree",
		Args:  cobra.ExactArgs(1),
		Run:   dump,
	}
	dumpCmd.Flags().Uint64SliceVarP(&items, "item", "i", nil, "item ordinal to deserialize (repeatable); defaults to item #1")
	dumpCmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default \"output.xml\")")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "has no effect; the output is the same with or without it")
	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
