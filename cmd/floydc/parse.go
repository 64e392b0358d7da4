package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/floyd"
)

var (
	startRule string
	datafile  string
	maxSteps  int
)

var parseCmd = &cobra.Command{
	Use:   "parse <grammar-file> <input-file>",
	Short: "Compile a grammar and run an input file through it",
	Args:  cobra.ExactArgs(2),
	RunE:  runParse,
}

func init () {
	parseCmd.Flags().StringVarP(&startRule, "start", "s", "", "starting rule, default is the grammar's own")
	parseCmd.Flags().StringVarP(&datafile, "datafile", "d", "", "YAML file of default extern bindings")
	parseCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "abort after this many interpreter steps (0 = unlimited)")
}

func runParse (cmd *cobra.Command, args []string) error {
	grammarPath, inputPath := args[0], args[1]

	grammarSource, err := os.ReadFile(grammarPath)
	if err != nil {
		return err
	}
	input, err := os.ReadFile(inputPath)
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
	if datafile != "" {
		opts = append(opts, floyd.WithDatafile(datafile))
	}
	if maxSteps > 0 {
		opts = append(opts, floyd.WithMaxSteps(maxSteps))
	}

	p, err := floyd.Compile(string(grammarSource), opts...)
	if err != nil {
		return err
	}

	var res floyd.Result
	if startRule != "" {
		res, err = p.ParseFrom(string(input), inputPath, nil, startRule)
	} else {
		res, err = p.Parse(string(input), inputPath, nil)
	}
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(res.Val, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
