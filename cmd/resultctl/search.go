package main

import (
	"results-portal/client"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [roll-number]",
	Short: "Look up a result by roll number",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	api, _, err := openClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	roll := ""
	if len(args) == 1 {
		roll = args[0]
	} else if roll, err = prompt(out, "Roll number"); err != nil {
		return err
	}

	flow, err := client.NewSearchFlow(api, nil)
	if err != nil {
		return err
	}
	answer, err := askCaptcha(out, flow.Challenge, flow.Refresh)
	if err != nil {
		return err
	}

	result, err := flow.Submit(cmd.Context(), roll, answer)
	if err != nil {
		return err
	}
	return client.RenderResult(out, result)
}
