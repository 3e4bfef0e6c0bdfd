package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/horarios-api/pkg/legacyhash"
)

func hashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Convert between professor ids and legacy hash codes",
	}

	var baseURL string
	encode := &cobra.Command{
		Use:   "encode <id>",
		Short: "Print the legacy code and link for an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := legacyhash.Encode(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, code)
			fmt.Fprintln(out, strings.TrimRight(baseURL, "/")+"/?hash="+code)
			return nil
		},
	}
	encode.Flags().StringVar(&baseURL, "base-url", "http://localhost:5000", "Public base URL of the API")

	decode := &cobra.Command{
		Use:   "decode <code>",
		Short: "Print the id behind a legacy code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := legacyhash.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.AddCommand(encode, decode)
	return cmd
}
