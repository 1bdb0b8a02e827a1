// Package main implements the pushgate command-line tool.
//
// pushgate validates push-client configuration without sending anything:
// "check" builds a client from a YAML configuration file and reports the
// outcome, and "watch" re-validates whenever a referenced credential or
// trust-material file changes on disk.
//
// Examples:
//
//	# Validate a configuration file
//	pushgate check --config client.yaml
//
//	# Re-validate on credential rotation, with verbose logging
//	pushgate watch --config client.yaml -v=2 -logtostderr
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/pushnet/pushgate/pkg/cert"
	"github.com/pushnet/pushgate/pkg/client"
	"github.com/pushnet/pushgate/pkg/client/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pushgate",
	Short: "Push-client configuration tool",
	Long: `pushgate validates push-client connection configuration: credentials,
trust material, and TLS settings are assembled exactly as a client would
assemble them, without opening any gateway connection.`,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build a client from a configuration file and report the outcome",
	RunE:  runCheck,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate the configuration whenever its material files change",
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML client configuration file")
	rootCmd.MarkPersistentFlagRequired("config")

	// glog registers its flags (-v, -logtostderr, ...) on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

func buildFromConfig() (*client.Client, error) {
	f, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	b := client.NewClientBuilder()
	if err := f.ApplyTo(b); err != nil {
		return nil, err
	}
	return b.Build()
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := buildFromConfig()
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	defer c.Close()

	fmt.Printf("Configuration valid: gateway=%s, auth=%s, engine=%s\n",
		c.Address(), authDescription(c), c.SecurityContext().Engine())
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	f, err := config.Load(configPath)
	if err != nil {
		return err
	}

	paths := f.MaterialPaths()
	if len(paths) == 0 {
		return fmt.Errorf("configuration references no material files to watch")
	}

	validate := func() {
		c, err := buildFromConfig()
		if err != nil {
			glog.Errorf("Configuration invalid: %v", err)
			fmt.Printf("invalid: %v\n", err)
			return
		}
		fmt.Printf("valid: gateway=%s, auth=%s\n", c.Address(), authDescription(c))
		c.Close()
	}

	watcher, err := cert.NewWatcher(paths...)
	if err != nil {
		return err
	}
	if err := watcher.Start(func(path string) {
		glog.Infof("Material file changed: %s", path)
		validate()
	}); err != nil {
		return err
	}
	defer watcher.Stop()

	validate()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	return nil
}

func authDescription(c *client.Client) string {
	if c.UsesTokenAuthentication() {
		return fmt.Sprintf("token (expiration %s)", c.TokenExpiration())
	}
	return "tls certificate"
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
