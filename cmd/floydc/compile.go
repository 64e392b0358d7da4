package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/floyd"
)

var compileCmd = &cobra.Command{
	Use:   "compile <grammar-file>",
	Short: "Check a grammar for syntax and analysis errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func runCompile (cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var opts []floyd.Option
	c, err := openCache()
	if err != nil {
		return err
	}
	if c != nil {
		opts = append(opts, floyd.WithCache(c))
	}

	if _, err := floyd.Compile(string(source), opts...); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
	return nil
}
