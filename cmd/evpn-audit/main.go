package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/config"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/fleet"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/healthcheck"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/inventory"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/logging"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/version"
)

var (
	hostsFile     string
	rulesFile     string
	fix           bool
	logLevel      string
	maxConcurrent int
)

var rootCmd = &cobra.Command{
	Use:   "evpn-audit",
	Short: "Audit EVPN route acceptance across a Juniper fleet",
	Long: `evpn-audit polls every device in the inventory for its EVPN IP-prefix
database over NETCONF, reports how many advertised routes are accepted,
rejected, pending or invalid, and can restart the routing process on
devices with rejected routes.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(*cobra.Command, []string) {
		version.Get().Print("evpn-audit")
	},
}

func init() {
	rootCmd.Flags().StringVar(&hostsFile, "hosts-file", "data/hosts.yaml", "YAML file containing the device inventory")
	rootCmd.Flags().StringVar(&rulesFile, "rules-file", "data/rules.yaml", "YAML file with audit rules")
	rootCmd.Flags().BoolVar(&fix, "fix", false, "restart routing on devices with rejected routes")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level, overrides the rules file (debug, info, warning, error)")
	rootCmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "maximum concurrent device connections, overrides the rules file")
	rootCmd.AddCommand(versionCmd)
}

func run(ctx context.Context) error {
	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		return fmt.Errorf("error loading rules: %w", err)
	}
	if err := logging.Setup(&rules.Logging, logLevel); err != nil {
		return fmt.Errorf("error configuring logging: %w", err)
	}

	devices, err := inventory.Load(hostsFile)
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no devices loaded from %s", hostsFile)
	}

	var prober *healthcheck.Prober
	if rules.Reachability.Enabled {
		prober = healthcheck.NewProber(
			healthcheck.NewTCPDialer(rules.Reachability.Timeout),
			rules.Reachability.ProbeRetries(),
		)
	}

	effective := maxConcurrent
	if effective <= 0 {
		effective = rules.MaxConcurrent()
	}
	logrus.Infof("processing %d devices (fix: %v, max concurrent: %d)", len(devices), fix, effective)

	runner := fleet.NewRunner(devices, rules, fleet.NewDefaultToolkit(prober), maxConcurrent, fix)
	results := runner.Run(ctx)

	fleet.Summarize(results).Print(os.Stdout, fix)

	return nil
}

func main() {
	version.Get().Print(os.Args[0])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
