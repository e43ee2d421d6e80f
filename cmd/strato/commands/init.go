package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stratoforge/strato/internal/config"
)

// Init returns the init command: an interactive strato.toml generator.
func Init() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a strato.toml interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("init is interactive and requires a terminal")
			}
			if output == "" {
				paths := config.DefaultSearchPaths()
				output = paths[0]
			}
			return runInitWizard(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the file (default: user config path)")
	return cmd
}

func runInitWizard(cmd *cobra.Command, output string) error {
	providers := config.Providers()
	sort.Strings(providers)

	var provider string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider").
			Description("The cloud this configuration section is for").
			Options(huh.NewOptions(providers...)...).
			Value(&provider),
	))
	if err := form.Run(); err != nil {
		return err
	}

	schema, ok := config.LookupSchema(provider)
	if !ok {
		return fmt.Errorf("no schema registered for %s", provider)
	}

	section, err := promptSection(provider, schema)
	if err != nil {
		return err
	}

	if err := writeConfigFile(output, provider, section); err != nil {
		return err
	}
	cmd.Printf("wrote %s section to %s\n", provider, output)
	return nil
}

// promptSection asks for every required key, then for the common SSH key
// settings. Optional provider keys stay out of the generated file; the
// schema accepts their absence and the file stays minimal.
func promptSection(provider string, schema *config.Schema) (map[string]any, error) {
	required := append([]string(nil), schema.Required...)
	sort.Strings(required)

	answers := make(map[string]*string, len(required)+2)
	var fields []huh.Field
	for _, key := range required {
		val := new(string)
		answers[key] = val
		fields = append(fields, huh.NewInput().
			Title(key).
			Description(fmt.Sprintf("Required by the %s schema", provider)).
			Validate(requireValue(key)).
			Value(val))
	}

	publicKey := new(string)
	keyName := new(string)
	answers["public_key_path"] = publicKey
	answers["key_name"] = keyName
	fields = append(fields,
		huh.NewInput().
			Title("public_key_path").
			Description("SSH public key uploaded to the cloud (empty: ~/.ssh/id_rsa.pub)").
			Value(publicKey),
		huh.NewInput().
			Title("key_name").
			Description("Cloud-side name for the key pair (empty: your username)").
			Value(keyName),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, err
	}

	section := make(map[string]any)
	for key, val := range answers {
		if *val != "" {
			section[key] = *val
		}
	}
	return section, nil
}

func requireValue(key string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", key)
		}
		return nil
	}
}

func writeConfigFile(path, provider string, section map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc := map[string]map[string]any{provider: section}
	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
