// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// notInherited are the persistent flags batch does not pass on to the
// commands it runs.
var notInherited = map[string]bool{
	"cpuprofile": true,
	"memprofile": true,
}

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Run gbdplot commands listed in a file",
		Long: `Batch runs each line of FILE as a gbdplot command line, for example

	ranking --year 1990 --top 10
	heatmap --location Spain

Blank lines and lines starting with # are ignored. Lines are split
like shell words. Flags given to batch itself apply to every line
unless the line overrides them. The dataset is read once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readBatch(args[0])
			if err != nil {
				return err
			}
			inherited := inheritedFlags(cmd)
			for _, l := range lines {
				if len(l.args) > 0 && l.args[0] == "batch" {
					return fmt.Errorf("%s:%d: batch cannot be nested", args[0], l.num)
				}
				a.log.Debug("batch", zap.Int("line", l.num), zap.Strings("args", l.args))
				sub := newRootCmd(a)
				sub.SetArgs(append(append([]string(nil), inherited...), l.args...))
				sub.SetOut(cmd.OutOrStdout())
				sub.SetErr(cmd.ErrOrStderr())
				sub.SilenceErrors = true
				if err := sub.Execute(); err != nil {
					return fmt.Errorf("%s:%d: %w", args[0], l.num, err)
				}
			}
			return nil
		},
	}
}

type batchLine struct {
	num  int
	args []string
}

func readBatch(path string) ([]batchLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBatch(path, bufio.NewScanner(f))
}

func parseBatch(name string, s *bufio.Scanner) ([]batchLine, error) {
	var lines []batchLine
	for num := 1; s.Scan(); num++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shellquote.Split(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, num, err)
		}
		lines = append(lines, batchLine{num, words})
	}
	return lines, s.Err()
}

// inheritedFlags returns the persistent flags set on cmd's command
// line in --name=value form.
func inheritedFlags(cmd *cobra.Command) []string {
	var out []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if notInherited[f.Name] || cmd.Root().PersistentFlags().Lookup(f.Name) == nil {
			return
		}
		out = append(out, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return out
}
