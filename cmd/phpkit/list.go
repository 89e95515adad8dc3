package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekut/claude-code-php-toolkit/pkg/content"
	"github.com/ekut/claude-code-php-toolkit/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered toolkit content",
	Long: `List walks the content tree and prints every discovered item grouped by
kind (agent, skill, command, rule, hook, example). Files that fail to parse
are reported as warnings; discovery continues past them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, _ := cmd.Flags().GetString("root")
		kindFilter, _ := cmd.Flags().GetString("kind")

		result, err := content.Discover(cmd.Context(), root)
		if err != nil {
			return err
		}

		for _, failure := range result.Failures {
			presenter.Warning(fmt.Sprintf("skipped %s: %v", failure.Path, failure.Err))
		}

		if result.Total() == 0 {
			presenter.Info("No content found")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tNAME\tPATH")
		fmt.Fprintln(tw, "----\t----\t----")

		for _, kind := range content.Kinds {
			if kindFilter != "" && string(kind) != kindFilter {
				continue
			}

			items := append([]content.Item(nil), result.Items[kind]...)
			sort.Slice(items, func(a, b int) bool { return items[a].Path < items[b].Path })

			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Kind, item.Name(), item.Path)
			}
		}

		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().String("root", ".", "Content root directory")
	listCmd.Flags().String("kind", "", "Only list items of this kind")
}
