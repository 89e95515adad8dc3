package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ekut/claude-code-php-toolkit/pkg/manifest"
	"github.com/ekut/claude-code-php-toolkit/pkg/presenter"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the plugin manifest",
	Long: fmt.Sprintf(`Validate loads the plugin manifest (%s) and checks it
against the manifest rules: a semver version field, array-shaped content
fields, agent entries that resolve to files, and no explicit declaration of
the auto-loaded %s.

All defects are reported together so the manifest can be fixed in one pass.`,
		manifest.DefaultPath, manifest.ReservedHookPath),
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, _ := cmd.Flags().GetString("root")
		manifestPath, _ := cmd.Flags().GetString("manifest")
		if manifestPath == "" {
			manifestPath = filepath.Join(root, filepath.FromSlash(manifest.DefaultPath))
		}

		doc, err := manifest.Load(manifestPath)
		if err != nil {
			return err
		}

		result := manifest.Validate(doc, root)
		if result.OK {
			presenter.Success(fmt.Sprintf("%s is valid", manifestPath))
			return nil
		}

		for _, verr := range result.Errors {
			presenter.Error(verr, "")
		}
		return errors.Errorf("manifest validation failed with %d error(s)", len(result.Errors))
	},
}

func init() {
	validateCmd.Flags().String("root", ".", "Plugin root directory for resolving declared paths")
	validateCmd.Flags().String("manifest", "", "Manifest path (defaults to <root>/"+manifest.DefaultPath+")")
}
