package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stratoforge/strato/internal/config"
)

// Config returns the config command group.
func Config() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate strato.toml",
	}

	cmd.AddCommand(configValidate())
	cmd.AddCommand(configShow())
	cmd.AddCommand(configProviders())

	return cmd
}

func configValidate() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate <provider>",
		Short: "Validate the configuration for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			resolved, err := config.Resolve(config.Options{
				Provider: provider,
				Source:   explicitSource(file),
			})
			if err != nil {
				return err
			}
			if !resolved.Validated {
				cmd.Printf("%s: no schema registered, configuration not validated\n", provider)
				return nil
			}
			cmd.Printf("%s: configuration is valid\n", provider)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to strato.toml (default: search order)")
	return cmd
}

func configShow() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "show <provider>",
		Short: "Show the configuration a provider would resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.Resolve(config.Options{
				Provider:       args[0],
				Source:         explicitSource(file),
				SkipValidation: true,
			})
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(map[string]config.Values{args[0]: resolved.Values})
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			cmd.Print(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to strato.toml (default: search order)")
	return cmd
}

func configProviders() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers with a registered schema",
		Run: func(cmd *cobra.Command, _ []string) {
			names := config.Providers()
			sort.Strings(names)
			for _, name := range names {
				cmd.Println(name)
			}
		},
	}
}

func explicitSource(file string) *config.Source {
	if file == "" {
		return nil
	}
	return &config.Source{Path: file}
}
