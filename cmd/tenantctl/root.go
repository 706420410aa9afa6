package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"guardpost.app/registry/gateway"
)

const envPrefix = "TENANTCTL"

type cli struct {
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	client *gateway.Client
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "tenantctl",
		Short:         "Manage Guardpost tenants",
		Long:          `Manage the tenants of a Guardpost registry from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.tenantctl.yaml)")
	flags.String("api-url", "http://localhost:8080", "registry base URL; plain http is upgraded to https unless local")
	flags.String("token-file", defaultTokenFile(), "where the session token is kept")
	flags.Duration("timeout", gateway.DefaultTimeout, "per request timeout")
	flags.StringP("output", "o", "table", "output format: table or json")

	for _, name := range []string{"api-url", "token-file", "timeout", "output"} {
		_ = c.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.tenantsCmd(),
	)
	return root
}

// loadConfig resolves settings with flags over TENANTCTL_* env over the
// config file, then builds the gateway client.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		c.v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		c.v.AddConfigPath(home)
		c.v.SetConfigName(".tenantctl")
		c.v.SetConfigType("yaml")
	}
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	switch c.output() {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.output())
	}

	client, err := gateway.New(gateway.Config{
		BaseURL:   c.v.GetString("api_url"),
		Session:   gateway.NewFileSession(c.v.GetString("token_file")),
		Navigator: c.navigator(),
		Timeout:   c.v.GetDuration("timeout"),
	})
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *cli) output() string {
	return c.v.GetString("output")
}

// navigator is where the CLI lands when the session ends: a hint to log in
// again.
func (c *cli) navigator() gateway.Navigator {
	return gateway.NavigatorFunc(func(string) {
		fmt.Fprintln(c.errOut, "Session expired. Run `tenantctl login` to sign in again.")
	})
}

func defaultTokenFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tenantctl", "credentials.json")
	}
	return ".tenantctl-credentials.json"
}

